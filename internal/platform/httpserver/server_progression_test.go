package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	progressionhttp "ijus/contexts/legal-research/progression-service/transport/http"
)

func startSession(t *testing.T, server testServer, alias string) string {
	t.Helper()
	body := []byte(`{"user_alias":"` + alias + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp progressionhttp.ProgressResponse
	decodeBody(t, rr, &resp)
	if resp.Data.SessionID == "" {
		t.Fatalf("expected session id in %s", rr.Body.String())
	}
	return resp.Data.SessionID
}

func TestStartSessionAcceptsEmptyBody(t *testing.T) {
	server := newTestServer()

	rr := serve(server, httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp progressionhttp.ProgressResponse
	decodeBody(t, rr, &resp)
	if resp.Data.XP != 156 || resp.Data.Level != 2 {
		t.Fatalf("unexpected seed progress %+v", resp.Data)
	}
}

func TestGetProgressUnknownSessionReturns404(t *testing.T) {
	server := newTestServer()

	rr := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/progress/sessions/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp progressionhttp.ErrorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != "session_not_found" {
		t.Fatalf("unexpected error code %q", resp.Code)
	}
}

func TestAddXPRejectsUnknownAction(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/xp", bytes.NewReader([]byte(`{"action":"teleport"}`)))
	rr := serve(server, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAddXPRejectsMalformedJSON(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/xp", bytes.NewReader([]byte(`{`)))
	rr := serve(server, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOversizedAmountsReturn400(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")
	base := "/api/v1/progress/sessions/" + sessionID

	for path, body := range map[string]string{
		base + "/xp":                               `{"action":"share","custom_amount":9223372036854775807}`,
		base + "/missions/abrir-decisoes/progress": `{"increment":9223372036854775807}`,
	} {
		rr := serve(server, httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body))))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
	if xp := sessionXP(t, server, sessionID); xp != 156 {
		t.Fatalf("expected xp to stay at 156, got %d", xp)
	}
}

func TestAddXPReplaysIdempotencyKey(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")
	path := "/api/v1/progress/sessions/" + sessionID + "/xp"

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Idempotency-Key", "idem-xp-1")
		return serve(server, req)
	}

	first := send(`{"action":"copy"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", first.Code, first.Body.String())
	}
	var firstResp progressionhttp.ActionResponse
	decodeBody(t, first, &firstResp)
	if firstResp.Data.Progress.XP != 160 {
		t.Fatalf("expected 160 xp after copy, got %d", firstResp.Data.Progress.XP)
	}

	replay := send(`{"action":"copy"}`)
	if replay.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", replay.Code, replay.Body.String())
	}
	var replayResp progressionhttp.ActionResponse
	decodeBody(t, replay, &replayResp)
	if !replayResp.Replayed || replayResp.Data.Progress.XP != 160 {
		t.Fatalf("expected replayed response with unchanged xp, got %+v", replayResp)
	}

	conflict := send(`{"action":"share"}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", conflict.Code, conflict.Body.String())
	}
}

func TestCompleteMissionBeforeTargetConflicts(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/missions/abrir-decisoes/complete", nil)
	rr := serve(server, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMissionProgressUnknownMission(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/missions/nope/progress", bytes.NewReader([]byte(`{"increment":1}`)))
	rr := serve(server, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnlockUnknownBadge(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/badges/nope/unlock", nil)
	rr := serve(server, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLeaderboardListsOptedInSessions(t *testing.T) {
	server := newTestServer()
	sessionID := startSession(t, server, "Ana")
	startSession(t, server, "Bia")

	rr := serve(server, httptest.NewRequest(http.MethodPost, "/api/v1/progress/sessions/"+sessionID+"/leaderboard/opt-in", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var toggled progressionhttp.ProgressResponse
	decodeBody(t, rr, &toggled)
	if !toggled.Data.OptInLeaderboard {
		t.Fatalf("expected opt-in after toggle")
	}

	rr = serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/progress/leaderboard?limit=10", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var board progressionhttp.LeaderboardResponse
	decodeBody(t, rr, &board)
	if len(board.Data) != 1 || board.Data[0].UserAlias != "Ana" || board.Data[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard %+v", board.Data)
	}
}

func TestLeaderboardRejectsBadLimit(t *testing.T) {
	server := newTestServer()

	rr := serve(server, httptest.NewRequest(http.MethodGet, "/api/v1/progress/leaderboard?limit=ten", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
