package handler

import (
	"context"

	"github.com/deppfellow/querylab/internal/entity"
	"github.com/deppfellow/querylab/internal/errs"
	"github.com/deppfellow/querylab/internal/repository"
	"github.com/deppfellow/querylab/internal/server"
	"github.com/deppfellow/querylab/internal/validation"
	"github.com/labstack/echo/v4"
)

// ReportReader is the service surface ReportHandler depends on.
type ReportReader interface {
	FindAll(ctx context.Context) ([]entity.User, error)
	FindAllByFirstName(ctx context.Context, firstName string) ([]entity.User, error)
	FindAllByUsernamePrefix(ctx context.Context, prefix string) ([]entity.User, error)
	FindLimitedUsersOrderedByBirthday(ctx context.Context, limit int) ([]entity.User, error)
	FindAllByCompanyName(ctx context.Context, companyName string) ([]entity.User, error)
	FindAllPaymentsByCompanyName(ctx context.Context, companyName string) ([]entity.Payment, error)
	FindAveragePaymentAmountByFirstAndLastNames(ctx context.Context, firstName, lastName string) (*float64, error)
	FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(ctx context.Context) ([]repository.CompanyAveragePayment, error)
	IsItPossible(ctx context.Context) ([]repository.UserAveragePayment, error)
	FindUsersCountInChats(ctx context.Context) ([]repository.ChatUsersCount, error)
	FindUsersByLanguage(ctx context.Context, language string) ([]entity.User, error)
	FindBiggestPayment(ctx context.Context) (*entity.Payment, error)
	FindUsersWithName(ctx context.Context, name string) ([]entity.User, error)
	FindUsersCompaniesInChat(ctx context.Context, chat entity.Chat) ([]entity.Company, error)
}

// DefaultOldestUsersLimit applies when /users/oldest has no limit parameter.
const DefaultOldestUsersLimit = 10

type NoParamsRequest struct{}

func (r *NoParamsRequest) Validate() error { return nil }

func NewNoParamsRequest() *NoParamsRequest { return &NoParamsRequest{} }

type FirstNameRequest struct {
	FirstName string `query:"first_name" validate:"required,max=255"`
}

func (r *FirstNameRequest) Validate() error { return validation.Struct(r) }

func NewFirstNameRequest() *FirstNameRequest { return &FirstNameRequest{} }

type NameRequest struct {
	Name string `param:"name" validate:"required,max=255"`
}

func (r *NameRequest) Validate() error { return validation.Struct(r) }

func NewNameRequest() *NameRequest { return &NameRequest{} }

type UsernamePrefixRequest struct {
	Prefix string `param:"prefix" validate:"required,max=255"`
}

func (r *UsernamePrefixRequest) Validate() error { return validation.Struct(r) }

func NewUsernamePrefixRequest() *UsernamePrefixRequest { return &UsernamePrefixRequest{} }

type OldestUsersRequest struct {
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

func (r *OldestUsersRequest) Validate() error { return validation.Struct(r) }

func NewOldestUsersRequest() *OldestUsersRequest {
	return &OldestUsersRequest{Limit: DefaultOldestUsersLimit}
}

type LanguageRequest struct {
	Language string `param:"language" validate:"required,len=2,alpha"`
}

func (r *LanguageRequest) Validate() error { return validation.Struct(r) }

func NewLanguageRequest() *LanguageRequest { return &LanguageRequest{} }

type FullNameRequest struct {
	FirstName string `query:"first_name" validate:"required,max=255"`
	LastName  string `query:"last_name" validate:"required,max=255"`
}

func (r *FullNameRequest) Validate() error { return validation.Struct(r) }

func NewFullNameRequest() *FullNameRequest { return &FullNameRequest{} }

type ChatRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *ChatRequest) Validate() error { return validation.Struct(r) }

func NewChatRequest() *ChatRequest { return &ChatRequest{} }

// AveragePaymentResponse reports a null average when the user has no payments.
type AveragePaymentResponse struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	AverageAmount *float64 `json:"average_amount"`
}

// ReportHandler serves the read-only report endpoints.
type ReportHandler struct {
	Handler
	reports ReportReader
}

func NewReportHandler(s *server.Server, reports ReportReader) *ReportHandler {
	return &ReportHandler{
		Handler: NewHandler(s),
		reports: reports,
	}
}

func (h *ReportHandler) FindAll(c echo.Context, _ *NoParamsRequest) ([]entity.User, error) {
	return h.reports.FindAll(c.Request().Context())
}

func (h *ReportHandler) FindAllByFirstName(c echo.Context, req *FirstNameRequest) ([]entity.User, error) {
	return h.reports.FindAllByFirstName(c.Request().Context(), req.FirstName)
}

func (h *ReportHandler) FindUsersWithName(c echo.Context, req *NameRequest) ([]entity.User, error) {
	return h.reports.FindUsersWithName(c.Request().Context(), req.Name)
}

func (h *ReportHandler) FindAllByUsernamePrefix(c echo.Context, req *UsernamePrefixRequest) ([]entity.User, error) {
	return h.reports.FindAllByUsernamePrefix(c.Request().Context(), req.Prefix)
}

func (h *ReportHandler) FindOldestUsers(c echo.Context, req *OldestUsersRequest) ([]entity.User, error) {
	return h.reports.FindLimitedUsersOrderedByBirthday(c.Request().Context(), req.Limit)
}

func (h *ReportHandler) FindUsersByLanguage(c echo.Context, req *LanguageRequest) ([]entity.User, error) {
	return h.reports.FindUsersByLanguage(c.Request().Context(), req.Language)
}

func (h *ReportHandler) FindUsersAboveAverage(c echo.Context, _ *NoParamsRequest) ([]repository.UserAveragePayment, error) {
	return h.reports.IsItPossible(c.Request().Context())
}

func (h *ReportHandler) FindAveragePayment(c echo.Context, req *FullNameRequest) (AveragePaymentResponse, error) {
	avg, err := h.reports.FindAveragePaymentAmountByFirstAndLastNames(c.Request().Context(), req.FirstName, req.LastName)
	if err != nil {
		return AveragePaymentResponse{}, err
	}
	return AveragePaymentResponse{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		AverageAmount: avg,
	}, nil
}

func (h *ReportHandler) FindCompanyUsers(c echo.Context, req *NameRequest) ([]entity.User, error) {
	return h.reports.FindAllByCompanyName(c.Request().Context(), req.Name)
}

func (h *ReportHandler) FindCompanyPayments(c echo.Context, req *NameRequest) ([]entity.Payment, error) {
	return h.reports.FindAllPaymentsByCompanyName(c.Request().Context(), req.Name)
}

func (h *ReportHandler) FindCompanyAverages(c echo.Context, _ *NoParamsRequest) ([]repository.CompanyAveragePayment, error) {
	return h.reports.FindCompanyNamesWithAvgUserPaymentsOrderedByCompanyName(c.Request().Context())
}

func (h *ReportHandler) FindChatUserCounts(c echo.Context, _ *NoParamsRequest) ([]repository.ChatUsersCount, error) {
	return h.reports.FindUsersCountInChats(c.Request().Context())
}

func (h *ReportHandler) FindChatCompanies(c echo.Context, req *ChatRequest) ([]entity.Company, error) {
	return h.reports.FindUsersCompaniesInChat(c.Request().Context(), entity.Chat{ID: req.ID})
}

func (h *ReportHandler) FindBiggestPayment(c echo.Context, _ *NoParamsRequest) (*entity.Payment, error) {
	payment, err := h.reports.FindBiggestPayment(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errs.NewNotFoundError("No payments recorded", true, nil)
	}
	return payment, nil
}
