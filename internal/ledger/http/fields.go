package http

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// fieldAliases lets clients post store column names as well as form field names.
var fieldAliases = map[string]string{
	"budget_ceiling": "budgetCeiling",
	"project_type":   "projectType",
	"start_date":     "startDate",
	"end_date":       "endDate",
	"project_id":     "projectId",
	"receipt_url":    "receiptUrl",
	"expense_date":   "expenseDate",
}

// bindFields reads a flat JSON object into raw form values. Numbers keep their literal text so
// money is never routed through float64.
func bindFields(c *gin.Context) (map[string]string, error) {
	var body map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	raw := make(map[string]string, len(body))
	for k, v := range body {
		if alias, ok := fieldAliases[k]; ok {
			k = alias
		}
		switch t := v.(type) {
		case nil:
		case string:
			raw[k] = t
		case json.Number:
			raw[k] = t.String()
		case bool:
			raw[k] = strconv.FormatBool(t)
		default:
			return nil, fmt.Errorf("invalid body: field %q must be a scalar", k)
		}
	}
	return raw, nil
}
