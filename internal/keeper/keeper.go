// Package keeper implements the workflow-maintenance operations: enabling
// every workflow of an owner so GitHub does not suspend them for
// inactivity, and pruning old workflow runs.
package keeper

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// API is the slice of the GitHub client the keeper drives.
type API interface {
	ListRepositories(ctx context.Context, owner string) ([]string, error)
	ListWorkflows(ctx context.Context, owner, repository string) ([]string, error)
	ListWorkflowRuns(ctx context.Context, owner, repository string) ([]int64, error)
	EnableWorkflow(ctx context.Context, owner, repository, workflowFile string) error
	DeleteWorkflowRun(ctx context.Context, owner, repository string, runID int64) error
}

// Service runs maintenance passes over all repositories of one owner.
type Service struct {
	api    API
	owner  string
	logger *zap.Logger
}

// New creates a keeper service.
func New(api API, owner string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, owner: owner, logger: log}
}

// ActivateAll enables every workflow in every repository of the owner.
func (s *Service) ActivateAll(ctx context.Context) error {
	s.logger.Info("activating all workflows", zap.String("owner", s.owner))

	repositories, err := s.api.ListRepositories(ctx, s.owner)
	if err != nil {
		return err
	}

	for _, repository := range repositories {
		workflows, err := s.api.ListWorkflows(ctx, s.owner, repository)
		if err != nil {
			return err
		}
		for _, workflowFile := range workflows {
			if reason := skipReason(workflowFile); reason != "" {
				s.logger.Debug("workflow skipped",
					zap.String("repository", repository),
					zap.String("workflow", workflowFile),
					zap.String("reason", reason),
				)
				continue
			}
			if err := s.api.EnableWorkflow(ctx, s.owner, repository, workflowFile); err != nil {
				return err
			}
			s.logger.Info("workflow enabled",
				zap.String("repository", repository),
				zap.String("workflow", workflowFile),
			)
		}
	}
	return nil
}

// PruneRuns deletes all but the newest keep workflow runs in every
// repository of the owner. Run IDs are monotonically increasing, so the
// newest runs are the highest IDs.
func (s *Service) PruneRuns(ctx context.Context, keep int) error {
	s.logger.Info("pruning old workflow runs",
		zap.String("owner", s.owner),
		zap.Int("keep", keep),
	)

	repositories, err := s.api.ListRepositories(ctx, s.owner)
	if err != nil {
		return err
	}

	for _, repository := range repositories {
		runIDs, err := s.api.ListWorkflowRuns(ctx, s.owner, repository)
		if err != nil {
			return err
		}

		sort.Slice(runIDs, func(i, j int) bool { return runIDs[i] > runIDs[j] })

		var toDelete []int64
		if len(runIDs) > keep {
			toDelete = runIDs[keep:]
		}

		s.logger.Info("repository runs inspected",
			zap.String("repository", repository),
			zap.Int("total", len(runIDs)),
			zap.Int("to_delete", len(toDelete)),
		)

		for _, runID := range toDelete {
			if err := s.api.DeleteWorkflowRun(ctx, s.owner, repository, runID); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipReason reports why a workflow file cannot or should not be enabled.
func skipReason(workflowFile string) string {
	switch {
	case strings.HasPrefix(workflowFile, "pages-build-deployment"):
		return "pages workflows can not be enabled"
	case strings.HasPrefix(workflowFile, "dependabot"):
		return "managed by Dependabot"
	default:
		return ""
	}
}
