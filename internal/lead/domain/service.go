package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/officecrm/pkg/db/pagination"
)

type CreateLeadRequest struct {
	CompanyName    string   `json:"company_name"`
	ContactPerson  string   `json:"contact_person"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Pincode        string   `json:"pincode"`
	GSTIN          string   `json:"gstin"`
	Status         string   `json:"status"`
	Source         string   `json:"source"`
	EstimatedValue *float64 `json:"estimated_value"`
	Notes          string   `json:"notes"`
}

type ListLeadRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListLeadFilter struct {
	Status string
}

type ListLeadResponse struct {
	pagination.PageInfo
	Leads []Lead `json:"leads"`
}

type Service interface {
	Create(context.Context, CreateLeadRequest) (Lead, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	List(context.Context, ListLeadRequest) (ListLeadResponse, error)
}

var (
	ErrInvalidID            = errors.New("invalid_lead_id")
	ErrInvalidCompanyName   = errors.New("invalid_company_name")
	ErrInvalidContactPerson = errors.New("invalid_contact_person")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidGSTIN         = errors.New("invalid_gstin")
	ErrInvalidPageToken     = errors.New("invalid_page_token")
	ErrNotFound             = errors.New("lead_not_found")
)
