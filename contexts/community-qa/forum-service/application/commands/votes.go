package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

// CastVoteCommand is the write-model input for a vote on a question or answer.
type CastVoteCommand struct {
	Actor      entities.Actor
	TargetType entities.TargetType
	TargetID   string
	Value      int
}

// CastVoteResult returns the stored vote and the recomputed target score.
type CastVoteResult struct {
	Vote      entities.Vote
	Target    entities.Target
	Score     int
	WasUpdate bool
}

// VoteUseCase maintains the vote ledger: one row per (voter, target), no
// self-votes, score recomputed from rows on every read.
type VoteUseCase struct {
	Store    ports.UnitOfWork
	Notifier application.Notifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// CastVote upserts the actor's vote on the target. A concurrent insert of the
// same key surfaces as ErrConflict from storage and is retried once as an
// update.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	cmd.Actor = cmd.Actor.Normalized()
	cmd.TargetID = strings.TrimSpace(cmd.TargetID)
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "forum_vote_cast_started",
		"module", "community-qa/forum-service",
		"layer", "application",
		"user_id", cmd.Actor.UserID,
		"target_type", string(cmd.TargetType),
		"target_id", cmd.TargetID,
	)
	if err := requireActor(cmd.Actor); err != nil {
		return CastVoteResult{}, err
	}
	if !cmd.TargetType.Valid() {
		return CastVoteResult{}, domainerrors.ErrUnknownTargetType
	}
	if !entities.ValidVoteValue(cmd.Value) {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteValue
	}

	var (
		result CastVoteResult
		err    error
	)
	for attempt := 0; attempt < 2; attempt++ {
		result, err = uc.castOnce(ctx, cmd)
		if err == nil || !errors.Is(err, domainerrors.ErrConflict) {
			break
		}
		logger.Warn("vote cast raced with concurrent insert",
			"event", "forum_vote_cast_conflict_retry",
			"module", "community-qa/forum-service",
			"layer", "application",
			"user_id", cmd.Actor.UserID,
			"target_id", cmd.TargetID,
			"attempt", attempt,
		)
	}
	if err != nil {
		if errors.Is(err, domainerrors.ErrSelfVoteNotAllowed) {
			logger.Warn("self vote rejected",
				"event", "forum_vote_self_rejected",
				"module", "community-qa/forum-service",
				"layer", "application",
				"user_id", cmd.Actor.UserID,
				"target_id", cmd.TargetID,
			)
		}
		return CastVoteResult{}, err
	}

	payload := map[string]any{
		"target_type": string(result.Target.Type),
		"target_id":   result.Target.ID,
		"actor_id":    result.Vote.UserID,
		"value":       result.Vote.Value,
	}
	if result.Target.Type == entities.TargetAnswer {
		payload["question_id"] = result.Target.QuestionID
	}
	uc.Notifier.Emit(ctx, result.Vote.UserID, result.Target.AuthorID, entities.NotificationVoteReceived, payload)

	logger.Info("vote cast",
		"event", "forum_vote_cast",
		"module", "community-qa/forum-service",
		"layer", "application",
		"vote_id", result.Vote.VoteID,
		"user_id", result.Vote.UserID,
		"target_type", string(result.Vote.TargetType),
		"target_id", result.Vote.TargetID,
		"value", result.Vote.Value,
		"score", result.Score,
		"was_update", result.WasUpdate,
	)
	return result, nil
}

func (uc VoteUseCase) castOnce(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	var result CastVoteResult
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		target, err := resolveTarget(ctx, repo, cmd.TargetType, cmd.TargetID)
		if err != nil {
			return err
		}
		if target.AuthorID == cmd.Actor.UserID {
			return domainerrors.ErrSelfVoteNotAllowed
		}

		now := uc.Clock.Now().UTC()
		vote, found, err := repo.GetVoteByIdentity(ctx, cmd.Actor.UserID, target.Type, target.ID)
		if err != nil {
			return err
		}
		if found {
			vote.Value = cmd.Value
			vote.UpdatedAt = now
		} else {
			voteID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return err
			}
			vote = entities.Vote{
				VoteID:     voteID,
				UserID:     cmd.Actor.UserID,
				TargetType: target.Type,
				TargetID:   target.ID,
				Value:      cmd.Value,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
		}
		if err := repo.SaveVote(ctx, vote); err != nil {
			return err
		}
		score, err := repo.SumVotes(ctx, target.Type, target.ID)
		if err != nil {
			return err
		}
		result = CastVoteResult{
			Vote:      vote,
			Target:    target,
			Score:     score,
			WasUpdate: found,
		}
		return nil
	})
	return result, err
}
