package promotions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milsabores/pasteleria-backend/pkg/config"
)

const (
	// percentage tiers are mutually exclusive; over-50 always wins
	tierOver50    = 0.50
	tierFelices50 = 0.10

	cakeKeyword = "torta"

	msgBirthday  = "Torta de cumpleaños gratis (beneficio DUOC)"
	msgOver50    = "Descuento 50% aplicado (mayores de 50 años)"
	msgFelices50 = "Descuento 10% aplicado (código FELICES50)"
)

// LineItem is one cart entry as seen by the discount pipeline. Prices are
// integer Chilean pesos; CLP has no subunit.
type LineItem struct {
	Code      string
	Name      string
	Category  string
	UnitPrice int
	Quantity  int
	Message   *string
}

// Profile carries the promotion-relevant customer fields. The engine only
// reads it; the registration flow owns the data.
type Profile struct {
	Email            string
	BirthDate        *time.Time
	BenefitTag       string
	RegistrationCode string
}

// ProfileLookup resolves an email to a stored profile. Matching is
// case-insensitive; (nil, nil) means no profile.
type ProfileLookup interface {
	FindProfile(ctx context.Context, email string) (*Profile, error)
}

// Breakdown itemizes how the discount was assembled.
type Breakdown struct {
	Percentage            float64  `json:"percentage"`
	PercentageDiscountCLP int      `json:"percentage_discount_clp"`
	BirthdayDiscountCLP   int      `json:"birthday_discount_clp"`
	IsOver50              bool     `json:"is_over_50"`
	IsFelices50           bool     `json:"is_felices_50"`
	IsDuocBirthday        bool     `json:"is_duoc_birthday"`
	Messages              []string `json:"messages"`
}

// Result is the full quote for one cart snapshot.
type Result struct {
	SubtotalCLP int       `json:"subtotal_clp"`
	DiscountCLP int       `json:"discount_clp"`
	TotalCLP    int       `json:"total_clp"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Engine computes the payable total for a cart plus a transparent breakdown.
// It is pure: same cart and same profile state always yield the same result,
// so the checkout preview and the final receipt agree.
type Engine interface {
	Compute(ctx context.Context, items []LineItem, customerEmail string) (*Result, error)
}

type engine struct {
	profiles ProfileLookup
	cfg      config.PromotionsConfig
	now      func() time.Time
}

// NewEngine builds the promotion engine over the given profile source.
func NewEngine(profiles ProfileLookup, cfg config.PromotionsConfig) (Engine, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile lookup required")
	}
	return &engine{
		profiles: profiles,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// Compute never fails: a missing, malformed or unresolvable email is the
// no-benefit path, not an error. The error return exists for symmetry with
// the rest of the service layer and is always nil.
func (e *engine) Compute(ctx context.Context, items []LineItem, customerEmail string) (*Result, error) {
	normalized := normalizeItems(items)
	subtotal := 0
	for _, it := range normalized {
		subtotal += it.UnitPrice * it.Quantity
	}

	res := &Result{
		SubtotalCLP: subtotal,
		TotalCLP:    subtotal,
		Breakdown:   Breakdown{Messages: []string{}},
	}

	profile := e.lookup(ctx, customerEmail)
	if profile == nil {
		return res, nil
	}

	age, hasAge := ageAt(profile.BirthDate, e.now())

	bd := &res.Breakdown
	bd.IsOver50 = (hasAge && age >= 50) || matchesLiteral(profile.BenefitTag, e.cfg.BenefitTag)
	bd.IsFelices50 = matchesLiteral(profile.RegistrationCode, e.cfg.RegistrationCode)
	bd.IsDuocBirthday = e.matchesAffiliateDomain(customerEmail) && isBirthdayToday(profile.BirthDate, e.now())

	// birthday benefit first: one free unit of the cheapest qualifying cake
	if bd.IsDuocBirthday {
		if cheapest, ok := cheapestCake(normalized); ok {
			bd.BirthdayDiscountCLP = cheapest.UnitPrice
		}
	}

	baseAfterBirthday := max(subtotal-bd.BirthdayDiscountCLP, 0)

	switch {
	case bd.IsOver50:
		bd.Percentage = tierOver50
	case bd.IsFelices50:
		bd.Percentage = tierFelices50
	}
	if bd.Percentage > 0 {
		bd.PercentageDiscountCLP = roundCLP(decimal.NewFromInt(int64(baseAfterBirthday)).Mul(decimal.NewFromFloat(bd.Percentage)))
	}

	res.DiscountCLP = bd.BirthdayDiscountCLP + bd.PercentageDiscountCLP
	if res.DiscountCLP > subtotal {
		res.DiscountCLP = subtotal
	}
	res.TotalCLP = max(subtotal-res.DiscountCLP, 0)

	if bd.BirthdayDiscountCLP > 0 {
		bd.Messages = append(bd.Messages, msgBirthday)
	}
	switch {
	case bd.IsOver50:
		bd.Messages = append(bd.Messages, msgOver50)
	case bd.IsFelices50:
		bd.Messages = append(bd.Messages, msgFelices50)
	}

	return res, nil
}

// lookup collapses every failure mode (empty email, no match, store error)
// into "no profile" so a discount can never break checkout.
func (e *engine) lookup(ctx context.Context, email string) *Profile {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil
	}
	profile, err := e.profiles.FindProfile(ctx, trimmed)
	if err != nil {
		return nil
	}
	return profile
}

func (e *engine) matchesAffiliateDomain(email string) bool {
	domain := strings.ToLower(strings.TrimSpace(e.cfg.AffiliateDomain))
	if domain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), "@"+domain)
}

// normalizeItems floors prices at 0 and defaults non-positive quantities to 1
// without mutating the caller's slice.
func normalizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.UnitPrice < 0 {
			it.UnitPrice = 0
		}
		if it.Quantity <= 0 {
			it.Quantity = 1
		}
		out[i] = it
	}
	return out
}

// cheapestCake returns the first-seen lowest-priced cake line. A cake is any
// item whose name or category contains the keyword, with a positive price.
func cheapestCake(items []LineItem) (LineItem, bool) {
	var best LineItem
	found := false
	for _, it := range items {
		if it.UnitPrice <= 0 || it.Quantity <= 0 {
			continue
		}
		if !isCake(it) {
			continue
		}
		if !found || it.UnitPrice < best.UnitPrice {
			best = it
			found = true
		}
	}
	return best, found
}

func isCake(it LineItem) bool {
	return strings.Contains(strings.ToLower(it.Name), cakeKeyword) ||
		strings.Contains(strings.ToLower(it.Category), cakeKeyword)
}

// ageAt applies the has-had-birthday-yet rule.
func ageAt(birthDate *time.Time, now time.Time) (int, bool) {
	if birthDate == nil {
		return 0, false
	}
	b := *birthDate
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, true
}

func isBirthdayToday(birthDate *time.Time, now time.Time) bool {
	if birthDate == nil {
		return false
	}
	return birthDate.Month() == now.Month() && birthDate.Day() == now.Day()
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// matchesLiteral compares a profile field against a configured literal. An
// unset literal matches nothing: otherwise a zero-value config would turn the
// equally empty profile fields into a discount for everyone.
func matchesLiteral(got, want string) bool {
	want = normalize(want)
	if want == "" {
		return false
	}
	return normalize(got) == want
}

// roundCLP rounds half-up to a whole peso. Inputs are non-negative so
// decimal's half-away-from-zero matches half-up.
func roundCLP(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
