package main

import (
	jurisprudencehttp "ijus/contexts/legal-research/jurisprudence-service/transport/http"
)

func searchRequest(args []string, tribunal string, size int, expand bool) jurisprudencehttp.SearchRequest {
	return jurisprudencehttp.SearchRequest{
		Query:    joinArgs(args),
		Tribunal: tribunal,
		Size:     size,
		Expand:   expand,
	}
}

func expandRequest(args []string) jurisprudencehttp.ExpandRequest {
	return jurisprudencehttp.ExpandRequest{Text: joinArgs(args)}
}
