// Package selection implements the disambiguation step between a scan or
// tap and a priced cart line.
package selection

import (
	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/catalog"
	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/apperror"
)

// State is the resolver's position in the disambiguation flow.
type State string

const (
	StateIdle              State = "idle"
	StateAwaitingVariation State = "awaiting_variation"
	StateAwaitingUnit      State = "awaiting_unit"
)

// ErrChoicePending rejects a new scan while a variation/unit choice is
// still open, so disambiguation cannot be entered twice concurrently.
var ErrChoicePending = apperror.NewPreconditionError("Finish or cancel the pending product choice first")

// OutcomeKind tags what a resolve produced.
type OutcomeKind string

const (
	// OutcomeResolved: the product resolves directly to a priceable pick.
	OutcomeResolved OutcomeKind = "resolved"
	// OutcomeNeedVariation: the caller must choose exactly one variation.
	OutcomeNeedVariation OutcomeKind = "need_variation"
	// OutcomeNeedUnit: the caller may choose a selling unit or the base unit.
	OutcomeNeedUnit OutcomeKind = "need_unit"
	// OutcomeNotFound: the code matched nothing. Never a silent no-op; the
	// caller offers catalog-entry creation pre-filled with the code.
	OutcomeNotFound OutcomeKind = "not_found"
)

// Pick is a fully disambiguated product choice ready for pricing. At most
// one of Variation/Unit is set.
type Pick struct {
	Product   *entity.Product
	Variation *entity.Variation
	Unit      *entity.SellingUnit
}

// Outcome is the result of resolving a scan or tap.
type Outcome struct {
	Kind       OutcomeKind
	Pick       *Pick // set when Kind == OutcomeResolved
	Product    *entity.Product
	Variations []entity.Variation   // options when Kind == OutcomeNeedVariation
	Units      []entity.SellingUnit // options when Kind == OutcomeNeedUnit
	Code       string               // the scanned code when Kind == OutcomeNotFound
}

// Resolver is the per-session disambiguation state machine.
type Resolver struct {
	index   *catalog.Index
	state   State
	pending *entity.Product
}

// New creates an idle resolver over the given catalog index.
func New(index *catalog.Index) *Resolver {
	return &Resolver{index: index, state: StateIdle}
}

// State returns the current state.
func (r *Resolver) State() State {
	return r.state
}

// Pending returns the product awaiting a variation/unit choice, if any.
func (r *Resolver) Pending() *entity.Product {
	return r.pending
}

// ResolveScan resolves a whole-string scan event. A code that matches
// exactly one variation bypasses disambiguation entirely.
func (r *Resolver) ResolveScan(code string) (Outcome, error) {
	if r.state != StateIdle {
		return Outcome{}, ErrChoicePending
	}
	hit, ok := r.index.Lookup(code)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Code: code}, nil
	}
	if hit.Variation != nil {
		return Outcome{
			Kind: OutcomeResolved,
			Pick: &Pick{Product: hit.Product, Variation: hit.Variation},
		}, nil
	}
	return r.resolveProduct(hit.Product), nil
}

// ResolveTap resolves a product tapped on the terminal grid.
func (r *Resolver) ResolveTap(productID uuid.UUID) (Outcome, error) {
	if r.state != StateIdle {
		return Outcome{}, ErrChoicePending
	}
	product, ok := r.index.Product(productID)
	if !ok {
		return Outcome{}, apperror.NewNotFoundError("Product")
	}
	return r.resolveProduct(product), nil
}

// resolveProduct decides whether the product needs disambiguation.
// Variations take precedence over selling units.
func (r *Resolver) resolveProduct(product *entity.Product) Outcome {
	if variations := product.ActiveVariations(); len(variations) > 0 {
		r.state = StateAwaitingVariation
		r.pending = product
		return Outcome{Kind: OutcomeNeedVariation, Product: product, Variations: variations}
	}
	if units := product.ActiveSellingUnits(); len(units) > 0 {
		r.state = StateAwaitingUnit
		r.pending = product
		return Outcome{Kind: OutcomeNeedUnit, Product: product, Units: units}
	}
	return Outcome{Kind: OutcomeResolved, Pick: &Pick{Product: product}}
}

// ChooseVariation completes a pending variation choice.
func (r *Resolver) ChooseVariation(variationID uuid.UUID) (Pick, error) {
	if r.state != StateAwaitingVariation {
		return Pick{}, apperror.NewPreconditionError("No variation choice is pending")
	}
	for i := range r.pending.Variations {
		v := &r.pending.Variations[i]
		if v.ID == variationID && v.Active {
			pick := Pick{Product: r.pending, Variation: v}
			r.reset()
			return pick, nil
		}
	}
	return Pick{}, apperror.NewNotFoundError("Variation")
}

// ChooseUnit completes a pending unit choice with a selling unit.
func (r *Resolver) ChooseUnit(unitID uuid.UUID) (Pick, error) {
	if r.state != StateAwaitingUnit {
		return Pick{}, apperror.NewPreconditionError("No unit choice is pending")
	}
	for i := range r.pending.SellingUnits {
		u := &r.pending.SellingUnits[i]
		if u.ID == unitID && u.Active {
			pick := Pick{Product: r.pending, Unit: u}
			r.reset()
			return pick, nil
		}
	}
	return Pick{}, apperror.NewNotFoundError("Selling unit")
}

// ChooseBaseUnit completes a pending unit choice with the base unit.
func (r *Resolver) ChooseBaseUnit() (Pick, error) {
	if r.state != StateAwaitingUnit {
		return Pick{}, apperror.NewPreconditionError("No unit choice is pending")
	}
	pick := Pick{Product: r.pending}
	r.reset()
	return pick, nil
}

// Cancel abandons any pending choice and returns to idle.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	r.state = StateIdle
	r.pending = nil
}
