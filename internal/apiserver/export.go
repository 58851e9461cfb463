package apiserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/webserver"
)

type ledgerExportRow struct {
	ID          int64  `csv:"id"`
	Day         string `csv:"day"`
	Hour        int    `csv:"hour"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Timestamp   string `csv:"timestamp"`
}

// registerExportRoutes registers ledger export endpoints
func registerExportRoutes() {
	webserver.ApiGET("/export/csv", exportLedgerCSV)
	webserver.ApiGET("/export/xlsx", exportLedgerXLSX)
}

func exportRows(txs []domain.Transaction) []ledgerExportRow {
	rows := make([]ledgerExportRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ledgerExportRow{
			ID:          tx.ID,
			Day:         tx.Day,
			Hour:        tx.Hour,
			Amount:      tx.Amount.Round(2).String(),
			Description: tx.Description,
			Timestamp:   tx.Timestamp.Format(time.RFC3339),
		})
	}
	return rows
}

func exportLedgerCSV(c echo.Context) error {
	start, end, err := parseDayRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date range", err.Error())
	}
	rows := exportRows(getEngine(c).Transactions(start, end))

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="ledger.csv"`)
	resp.WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, resp)
}

func exportLedgerXLSX(c echo.Context) error {
	start, end, err := parseDayRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date range", err.Error())
	}
	rows := exportRows(getEngine(c).Transactions(start, end))

	const sheet = "Sheet1"
	xlsx := excelize.NewFile()
	headers := []string{"id", "day", "hour", "amount", "description", "timestamp"}
	for col, h := range headers {
		xlsx.SetCellValue(sheet, excelize.ToAlphaString(col)+"1", h)
	}
	for i, row := range rows {
		line := strconv.Itoa(i + 2)
		xlsx.SetCellValue(sheet, "A"+line, row.ID)
		xlsx.SetCellValue(sheet, "B"+line, row.Day)
		xlsx.SetCellValue(sheet, "C"+line, row.Hour)
		xlsx.SetCellValue(sheet, "D"+line, row.Amount)
		xlsx.SetCellValue(sheet, "E"+line, row.Description)
		xlsx.SetCellValue(sheet, "F"+line, row.Timestamp)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="ledger.xlsx"`)
	resp.WriteHeader(http.StatusOK)
	return xlsx.Write(resp)
}
