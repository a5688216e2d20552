package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ijus/contexts/legal-research/progression-service/application"
	"ijus/contexts/legal-research/progression-service/ports"
	httptransport "ijus/contexts/legal-research/progression-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) StartSessionHandler(ctx context.Context, req httptransport.StartSessionRequest) (httptransport.ProgressResponse, error) {
	snapshot, err := h.Service.StartSession(ctx, ports.StartSessionInput{UserAlias: req.UserAlias})
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return httptransport.ProgressResponse{Status: "success", Data: progressDTO(snapshot)}, nil
}

func (h Handler) GetProgressHandler(ctx context.Context, sessionID string) (httptransport.ProgressResponse, error) {
	snapshot, err := h.Service.GetProgress(ctx, sessionID)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return httptransport.ProgressResponse{Status: "success", Data: progressDTO(snapshot)}, nil
}

func (h Handler) AddXPHandler(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	req httptransport.AddXPRequest,
) (httptransport.ActionResponse, error) {
	result, err := h.Service.AddXP(ctx, idempotencyKey, sessionID, ports.AddXPInput{
		Action:       req.Action,
		CustomAmount: req.CustomAmount,
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return actionResponse(result), nil
}

func (h Handler) RecordActivityHandler(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	req httptransport.RecordActivityRequest,
) (httptransport.ActionResponse, error) {
	result, err := h.Service.RecordActivity(ctx, idempotencyKey, sessionID, req.Action)
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return actionResponse(result), nil
}

func (h Handler) UpdateMissionProgressHandler(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	missionID string,
	req httptransport.MissionProgressRequest,
) (httptransport.ActionResponse, error) {
	result, err := h.Service.UpdateMissionProgress(ctx, idempotencyKey, sessionID, ports.MissionProgressInput{
		MissionID: missionID,
		Increment: req.Increment,
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return actionResponse(result), nil
}

func (h Handler) CompleteMissionHandler(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	missionID string,
) (httptransport.ActionResponse, error) {
	result, err := h.Service.CompleteMission(ctx, idempotencyKey, sessionID, missionID)
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return actionResponse(result), nil
}

func (h Handler) UnlockBadgeHandler(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	badgeID string,
) (httptransport.ActionResponse, error) {
	result, err := h.Service.UnlockBadge(ctx, idempotencyKey, sessionID, badgeID)
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return actionResponse(result), nil
}

func (h Handler) ToggleLeaderboardOptInHandler(ctx context.Context, sessionID string) (httptransport.ProgressResponse, error) {
	snapshot, err := h.Service.ToggleLeaderboardOptIn(ctx, sessionID)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	return httptransport.ProgressResponse{Status: "success", Data: progressDTO(snapshot)}, nil
}

func (h Handler) GetLeaderboardHandler(ctx context.Context, limit int, offset int) (httptransport.LeaderboardResponse, error) {
	items, err := h.Service.GetLeaderboard(ctx, limit, offset)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	resp := httptransport.LeaderboardResponse{
		Status: "success",
		Data:   make([]httptransport.LeaderboardEntryDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.LeaderboardEntryDTO{
			Rank:      item.Rank,
			UserAlias: item.UserAlias,
			XP:        item.XP,
			Level:     item.Level,
		})
	}
	return resp, nil
}

func actionResponse(result application.ActionResult) httptransport.ActionResponse {
	resp := httptransport.ActionResponse{
		Status:   "success",
		Replayed: result.Replayed,
	}
	resp.Data.Changed = result.Changed
	resp.Data.Progress = progressDTO(result.Snapshot)
	resp.Data.Gains = make([]httptransport.XPGainDTO, 0, len(result.Gains))
	for _, gain := range result.Gains {
		resp.Data.Gains = append(resp.Data.Gains, httptransport.XPGainDTO{
			Action:        string(gain.Action),
			Amount:        gain.Amount,
			XP:            gain.XP,
			PreviousLevel: gain.PreviousLevel,
			Level:         gain.Level,
			LeveledUp:     gain.LeveledUp(),
		})
	}
	resp.Data.Notifications = make([]httptransport.NotificationDTO, 0, len(result.Notifications))
	for _, item := range result.Notifications {
		resp.Data.Notifications = append(resp.Data.Notifications, httptransport.NotificationDTO{
			Type:        item.Type,
			Title:       item.Title,
			Description: item.Description,
			XP:          item.XP,
			Level:       item.Level,
			EntityID:    item.EntityID,
		})
	}
	return resp
}

func progressDTO(snapshot ports.Snapshot) httptransport.ProgressDTO {
	progress := snapshot.Progress
	dto := httptransport.ProgressDTO{
		SessionID:        progress.SessionID,
		UserAlias:        progress.UserAlias,
		XP:               progress.XP,
		Level:            progress.Level,
		NextLevelXP:      snapshot.NextLevelXP,
		LevelCurrent:     snapshot.LevelProgress.Current,
		LevelTarget:      snapshot.LevelProgress.Target,
		LevelPercentage:  snapshot.LevelProgress.Percentage,
		OptInLeaderboard: progress.OptInLeaderboard,
		Stats: httptransport.StatsDTO{
			TotalSearches:        progress.Stats.TotalSearches,
			TotalDocumentsOpened: progress.Stats.TotalDocumentsOpened,
			TotalCopies:          progress.Stats.TotalCopies,
			TotalShares:          progress.Stats.TotalShares,
			AverageRelevance:     progress.Stats.AverageRelevance,
			TimeSavedMinutes:     progress.Stats.TimeSavedMinutes,
			Streak:               progress.Stats.Streak,
			AreasExplored:        copyOrEmpty(progress.Stats.AreasExplored),
			ModesUsed:            copyOrEmpty(progress.Stats.ModesUsed),
		},
		Missions:  make([]httptransport.MissionDTO, 0, len(progress.Missions)),
		Badges:    make([]httptransport.BadgeDTO, 0, len(progress.Badges)),
		UpdatedAt: progress.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, mission := range progress.Missions {
		dto.Missions = append(dto.Missions, httptransport.MissionDTO{
			ID:          mission.ID,
			Name:        mission.Name,
			Description: mission.Description,
			Type:        string(mission.Type),
			Target:      mission.Target,
			Progress:    mission.Progress,
			Completed:   mission.Completed,
			State:       string(mission.State()),
			XP:          mission.XP,
			Icon:        mission.Icon,
		})
	}
	for _, badge := range progress.Badges {
		item := httptransport.BadgeDTO{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
			Category:    string(badge.Category),
			Earned:      badge.Earned,
		}
		if badge.EarnedAt != nil {
			item.EarnedAt = badge.EarnedAt.UTC().Format(time.RFC3339)
		}
		dto.Badges = append(dto.Badges, item)
	}
	return dto
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}
