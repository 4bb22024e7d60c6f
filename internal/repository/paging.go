package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/school-results-api/internal/models"
)

// orderBy builds an ORDER BY clause restricted to the allowed columns.
func orderBy(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, order)
}

// limitOffset renders the LIMIT/OFFSET window for a page.
func limitOffset(page, size int) string {
	page, size = models.Normalize(page, size)
	return fmt.Sprintf("LIMIT %d OFFSET %d", size, (page-1)*size)
}

func placeholder(args []interface{}) string {
	return fmt.Sprintf("$%d", len(args))
}
