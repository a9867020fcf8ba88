package rule

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

type ruleResponse struct {
	ID                    uuid.UUID         `json:"id"`
	Name                  string            `json:"name"`
	Description           string            `json:"description,omitempty"`
	Approvers             []rule.Approver   `json:"approvers"`
	SequenceType          rule.SequenceType `json:"sequence_type"`
	MinApprovalPercentage int               `json:"min_approval_percentage"`
	Conditions            rule.Conditions   `json:"conditions"`
	IsActive              bool              `json:"is_active"`
	Priority              int               `json:"priority"`
	CreatedBy             *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             *time.Time        `json:"updated_at,omitempty"`
}

func toResponse(r *rule.ApprovalRule) ruleResponse {
	return ruleResponse{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		Approvers:             r.Approvers,
		SequenceType:          r.SequenceType,
		MinApprovalPercentage: r.MinApprovalPercentage,
		Conditions:            r.Conditions,
		IsActive:              r.IsActive,
		Priority:              r.Priority,
		CreatedBy:             r.CreatedBy,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func toResponseList(rules []*rule.ApprovalRule) []ruleResponse {
	resp := make([]ruleResponse, len(rules))
	for i, r := range rules {
		resp[i] = toResponse(r)
	}

	return resp
}
