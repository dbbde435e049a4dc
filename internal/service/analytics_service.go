package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AnalyticsSummary aggregates ticket counts along every classification
// axis the dashboard charts.
type AnalyticsSummary struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByDisposition  map[string]int `json:"by_disposition"`
	ByPriority     map[string]int `json:"by_priority"`
	ByPanel        map[string]int `json:"by_panel"`
	ByIssueTypeL1  map[string]int `json:"by_issue_type_l1"`
	ByIssueTypeL2  map[string]int `json:"by_issue_type_l2"`
	ByDesignation  map[string]int `json:"by_designation"`
	ByAssignee     map[string]int `json:"by_assignee"`
	Unassigned     int            `json:"unassigned"`
	Unclassified   int            `json:"unclassified"`
}

// AssigneeLoad reports one assignee's current and lifetime ticket counts.
type AssigneeLoad struct {
	AssigneeID    string `json:"assignee_id"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	IsActive      bool   `json:"is_active"`
	ActiveTickets int    `json:"active_tickets"`
	TotalTickets  int    `json:"total_tickets"`
}

// AnalyticsService computes dashboard aggregates in memory from a slim
// classification projection.
type AnalyticsService struct {
	tickets          repository.TicketRepository
	assignees        repository.AssigneeRepository
	terminalStatuses []string
	logger           *zap.Logger
}

// NewAnalyticsService creates the service.
func NewAnalyticsService(tickets repository.TicketRepository, assignees repository.AssigneeRepository, terminalStatuses []string, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		tickets:          tickets,
		assignees:        assignees,
		terminalStatuses: terminalStatuses,
		logger:           logger,
	}
}

// Summary tallies every ticket along the classification axes. Tickets
// missing an optional axis value are skipped for that axis; tickets with
// no L1 issue type count as unclassified.
func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	rows, err := s.tickets.ListClassifications(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &AnalyticsSummary{
		ByStatus:      map[string]int{},
		ByDisposition: map[string]int{},
		ByPriority:    map[string]int{},
		ByPanel:       map[string]int{},
		ByIssueTypeL1: map[string]int{},
		ByIssueTypeL2: map[string]int{},
		ByDesignation: map[string]int{},
		ByAssignee:    map[string]int{},
	}
	for _, row := range rows {
		summary.Total++
		summary.ByStatus[row.Status]++
		summary.ByPanel[row.Panel]++
		summary.ByDesignation[row.Designation]++
		if row.Disposition != nil {
			summary.ByDisposition[*row.Disposition]++
		}
		if row.Priority != nil {
			summary.ByPriority[*row.Priority]++
		}
		if row.IssueTypeL1 != nil {
			summary.ByIssueTypeL1[*row.IssueTypeL1]++
		} else {
			summary.Unclassified++
		}
		if row.IssueTypeL2 != nil {
			summary.ByIssueTypeL2[*row.IssueTypeL2]++
		}
		if row.AssignedToID != nil {
			summary.ByAssignee[*row.AssignedToID]++
		} else {
			summary.Unassigned++
		}
	}
	return summary, nil
}

// AssignmentStatistics returns per-assignee load, inactive assignees
// included so the dashboard can show who still holds tickets.
func (s *AnalyticsService) AssignmentStatistics(ctx context.Context) ([]AssigneeLoad, error) {
	roster, err := s.assignees.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	loads := make([]AssigneeLoad, 0, len(roster))
	for _, assignee := range roster {
		active, err := s.tickets.CountActiveForAssignee(ctx, assignee.ID, s.terminalStatuses)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		total, err := s.tickets.CountTotalForAssignee(ctx, assignee.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		loads = append(loads, AssigneeLoad{
			AssigneeID:    assignee.ID,
			Name:          assignee.Name,
			Department:    assignee.Department,
			IsActive:      assignee.IsActive,
			ActiveTickets: active,
			TotalTickets:  total,
		})
	}
	return loads, nil
}
