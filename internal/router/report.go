package router

import (
	"net/http"

	"github.com/deppfellow/querylab/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerReportRoutes(g *echo.Group, h *handler.Handlers) {
	r := h.Report

	users := g.Group("/users")
	users.GET("", handler.Handle(r.Handler, r.FindAll, http.StatusOK, handler.NewNoParamsRequest))
	users.GET("/search", handler.Handle(r.Handler, r.FindAllByFirstName, http.StatusOK, handler.NewFirstNameRequest))
	users.GET("/named/:name", handler.Handle(r.Handler, r.FindUsersWithName, http.StatusOK, handler.NewNameRequest))
	users.GET("/username-prefix/:prefix", handler.Handle(r.Handler, r.FindAllByUsernamePrefix, http.StatusOK, handler.NewUsernamePrefixRequest))
	users.GET("/oldest", handler.Handle(r.Handler, r.FindOldestUsers, http.StatusOK, handler.NewOldestUsersRequest))
	users.GET("/language/:language", handler.Handle(r.Handler, r.FindUsersByLanguage, http.StatusOK, handler.NewLanguageRequest))
	users.GET("/above-average", handler.Handle(r.Handler, r.FindUsersAboveAverage, http.StatusOK, handler.NewNoParamsRequest))
	users.GET("/average-payment", handler.Handle(r.Handler, r.FindAveragePayment, http.StatusOK, handler.NewFullNameRequest))

	companies := g.Group("/companies")
	companies.GET("/average-payments", handler.Handle(r.Handler, r.FindCompanyAverages, http.StatusOK, handler.NewNoParamsRequest))
	companies.GET("/:name/users", handler.Handle(r.Handler, r.FindCompanyUsers, http.StatusOK, handler.NewNameRequest))
	companies.GET("/:name/payments", handler.Handle(r.Handler, r.FindCompanyPayments, http.StatusOK, handler.NewNameRequest))

	chats := g.Group("/chats")
	chats.GET("/user-counts", handler.Handle(r.Handler, r.FindChatUserCounts, http.StatusOK, handler.NewNoParamsRequest))
	chats.GET("/:id/companies", handler.Handle(r.Handler, r.FindChatCompanies, http.StatusOK, handler.NewChatRequest))

	g.GET("/payments/biggest", handler.Handle(r.Handler, r.FindBiggestPayment, http.StatusOK, handler.NewNoParamsRequest))
}
