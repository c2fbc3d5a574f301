package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain"
	"fleetfin/internal/services"
)

func reportFormat(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", services.FormatJSON)))
}

// GET /api/v1/reports/daily/:date?format=json|md|html|pdf
func DailyReport(c *gin.Context) {
	svc := services.ReportService{}
	rec, err := svc.Daily(c.Request.Context(), c.Param("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	format := reportFormat(c)
	if format == services.FormatJSON {
		ok(c, rec)
		return
	}
	body, ctype, name, err := svc.Render(rec, format)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	disposition := "inline"
	if format == services.FormatPDF {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, name))
	c.Data(http.StatusOK, ctype, body)
}

// GET /api/v1/reports/period?start=&end=&format=json|md
func PeriodReport(c *gin.Context) {
	rep, err := services.ReportService{}.Period(c.Request.Context(), dateRange(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	switch reportFormat(c) {
	case services.FormatJSON:
		ok(c, rep)
	case services.FormatMarkdown:
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(services.PeriodMarkdown(rep)))
	default:
		RespondDomainError(c, domain.ValidationError{Field: "format", Msg: "must be json or md"})
	}
}
