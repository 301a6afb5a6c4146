package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arcadehq/workforce-client-go/internal/pkg/week"
)

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	return week.ParseDate(s)
}
