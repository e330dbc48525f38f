package models

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

func init() {
	schema.RegisterSerializer("amount", decimalSerializer{parse: portfolio.ParseAmount})
	schema.RegisterSerializer("signed", decimalSerializer{parse: portfolio.ParseDecimal})
}

// decimalSerializer stores decimals as text and reads them back leniently:
// a malformed cell scans as zero instead of failing the whole query.
//
// "amount" is used for ledger quantities, prices and fees, which are never
// negative. "signed" is used for stored figures such as P&L.
type decimalSerializer struct {
	parse func(string) decimal.Decimal
}

func (s decimalSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	value := decimal.Zero
	switch v := dbValue.(type) {
	case nil:
	case string:
		value = s.parse(v)
	case []byte:
		value = s.parse(string(v))
	case int64:
		value = s.parse(decimal.NewFromInt(v).String())
	case float64:
		value = s.parse(decimal.NewFromFloat(v).String())
	default:
		value = s.parse(fmt.Sprint(v))
	}
	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(value))
	return nil
}

func (s decimalSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case decimal.Decimal:
		return v.String(), nil
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		return v.String(), nil
	default:
		return nil, fmt.Errorf("field %s: cannot store %T as decimal", field.Name, fieldValue)
	}
}
