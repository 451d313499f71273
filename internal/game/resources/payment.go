package resources

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

var (
	// ErrInsufficientResources is returned when fewer ready resources exist than the cost.
	ErrInsufficientResources = errors.New("insufficient ready resources")
	// ErrNotImplemented marks rules that are recognised but not yet supported.
	ErrNotImplemented = errors.New("not yet supported")
)

// PaymentPlan lists the resource instances that will be exhausted to pay a cost.
type PaymentPlan struct {
	Cost    int
	Exhaust []*cards.Instance
}

// PaymentResult represents the result of a payment attempt.
type PaymentResult struct {
	Success bool
	Plan    *PaymentPlan
	Ready   int
	Reason  string
}

// CountReady returns how many resources are not exhausted.
func CountReady(pool []*cards.Instance) int {
	n := 0
	for _, r := range pool {
		if r.IsReady() {
			n++
		}
	}
	return n
}

// CalculatePayment picks the first cost ready resources in pool order.
// It never mutates the pool.
func CalculatePayment(cost int, pool []*cards.Instance) *PaymentResult {
	ready := CountReady(pool)
	if cost <= 0 {
		return &PaymentResult{Success: true, Plan: &PaymentPlan{}, Ready: ready}
	}
	if ready < cost {
		return &PaymentResult{
			Success: false,
			Ready:   ready,
			Reason:  fmt.Sprintf("need %d ready resources, have %d", cost, ready),
		}
	}

	plan := &PaymentPlan{Cost: cost}
	for _, r := range pool {
		if len(plan.Exhaust) == cost {
			break
		}
		if r.IsReady() {
			plan.Exhaust = append(plan.Exhaust, r)
		}
	}
	return &PaymentResult{Success: true, Plan: plan, Ready: ready}
}

// Apply exhausts every resource in the plan.
func (p *PaymentPlan) Apply() {
	for _, r := range p.Exhaust {
		r.Exhaust()
	}
}

// Pay calculates and applies a payment. On failure nothing is exhausted and the
// returned error wraps ErrInsufficientResources.
func Pay(cost int, pool []*cards.Instance) (*PaymentPlan, error) {
	result := CalculatePayment(cost, pool)
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientResources, result.Reason)
	}
	result.Plan.Apply()
	return result.Plan, nil
}

// Refresh readies every exhausted resource and returns how many were readied.
func Refresh(pool []*cards.Instance) int {
	n := 0
	for _, r := range pool {
		if r.Exhausted {
			r.Ready()
			n++
		}
	}
	return n
}

// AspectPenalty reports the extra cost for playing tpl with the aspects the
// player's leader and base provide. Each aspect icon on the card needs its own
// matching icon. A covered card costs nothing extra; an uncovered one returns
// ErrNotImplemented. Without known player aspects no penalty is assessed.
func AspectPenalty(tpl *cards.Template, playerAspects []string) (int, error) {
	if tpl == nil || len(tpl.Aspects) == 0 || len(playerAspects) == 0 {
		return 0, nil
	}
	fold := cases.Fold()
	available := make(map[string]int, len(playerAspects))
	for _, a := range playerAspects {
		available[fold.String(a)]++
	}
	var missing []string
	for _, a := range tpl.Aspects {
		key := fold.String(a)
		if available[key] > 0 {
			available[key]--
			continue
		}
		missing = append(missing, a)
	}
	if len(missing) == 0 {
		return 0, nil
	}
	return 0, fmt.Errorf("aspect penalty for %q (%s): %w", tpl.Name, strings.Join(missing, ", "), ErrNotImplemented)
}
