// Package money 金额工具:所有金额在系统内部以最小货币单位(分)的整数表示
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder 金额缺失时的占位符
const Placeholder = "—"

// DefaultCurrency 默认币种
const DefaultCurrency = "USD"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoneyFromCents 格式化金额
// cents为最小货币单位数量,小数位数取ISO 4217标准(USD为2,JPY为0)
// cents为nil时返回占位符;无法识别的币种按USD处理
func FormatMoneyFromCents(cents *int64, currencyCode string) string {
	if cents == nil {
		return Placeholder
	}

	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit, code = currency.USD, DefaultCurrency
	}
	scale, _ := currency.Standard.Rounding(unit)

	v := *cents
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := decimal.NewFromInt(v).Abs()
	major := abs.Shift(-int32(scale)).Truncate(0)
	minor := abs.Sub(major.Shift(int32(scale)))

	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}

	out := sign + symbol + printer.Sprintf("%d", major.IntPart())
	if scale > 0 {
		out += fmt.Sprintf(".%0*d", scale, minor.IntPart())
	}
	return out
}

// DollarsToCents 元转分,四舍五入(远离零)
func DollarsToCents(dollars decimal.Decimal) int64 {
	return dollars.Shift(2).Round(0).IntPart()
}

// CentsToDollars 分转元
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseDollars 解析元金额字符串(如"19.99")并转换为分
func ParseDollars(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return DollarsToCents(d), nil
}
