// Package catalog holds the terminal's read-only snapshot of the product
// catalog and its lookup index.
package catalog

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/domain/entity"
)

// Snapshot is an immutable view of the catalog at one refresh point. A new
// refresh replaces the whole snapshot; snapshots are never merged
// field-by-field. Open cart lines are unaffected by a replace because they
// capture their own pricing at add time.
type Snapshot struct {
	Products []entity.Product

	byID     map[uuid.UUID]*entity.Product
	byCode   map[string]codeHit // exact barcode/SKU, products and variations
	varByID  map[uuid.UUID]varHit
	unitByID map[uuid.UUID]unitHit
}

type codeHit struct {
	product   *entity.Product
	variation *entity.Variation // nil when the code matched the product itself
}

type varHit struct {
	product   *entity.Product
	variation *entity.Variation
}

type unitHit struct {
	product *entity.Product
	unit    *entity.SellingUnit
}

// NewSnapshot builds the lookup indexes over the given products. Inactive
// products are kept out of every index.
func NewSnapshot(products []entity.Product) *Snapshot {
	s := &Snapshot{
		Products: products,
		byID:     make(map[uuid.UUID]*entity.Product, len(products)),
		byCode:   make(map[string]codeHit),
		varByID:  make(map[uuid.UUID]varHit),
		unitByID: make(map[uuid.UUID]unitHit),
	}
	for i := range s.Products {
		p := &s.Products[i]
		if !p.Active {
			continue
		}
		s.byID[p.ID] = p
		if p.Barcode != "" {
			s.byCode[normalizeCode(p.Barcode)] = codeHit{product: p}
		}
		if p.SKU != "" {
			s.byCode[normalizeCode(p.SKU)] = codeHit{product: p}
		}
		for j := range p.Variations {
			v := &p.Variations[j]
			if !v.Active {
				continue
			}
			s.varByID[v.ID] = varHit{product: p, variation: v}
			if v.Barcode != "" {
				s.byCode[normalizeCode(v.Barcode)] = codeHit{product: p, variation: v}
			}
			if v.SKU != "" {
				s.byCode[normalizeCode(v.SKU)] = codeHit{product: p, variation: v}
			}
		}
		for j := range p.SellingUnits {
			u := &p.SellingUnits[j]
			if !u.Active {
				continue
			}
			s.unitByID[u.ID] = unitHit{product: p, unit: u}
		}
	}
	return s
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupResult is the outcome of a barcode/SKU lookup. Variation is set
// when the code matched a specific variation, which bypasses
// disambiguation.
type LookupResult struct {
	Product   *entity.Product
	Variation *entity.Variation
}

// Index is the terminal-wide catalog handle. Reads see whichever snapshot
// was last installed.
type Index struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewIndex creates an index starting from an empty snapshot.
func NewIndex() *Index {
	return &Index{snap: NewSnapshot(nil)}
}

// Replace installs a new snapshot wholesale.
func (ix *Index) Replace(snap *Snapshot) {
	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()
}

// Current returns the snapshot reads should use.
func (ix *Index) Current() *Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

// Lookup resolves an exact barcode or SKU. The second return is false on a
// miss; a miss is a distinct outcome, not an error, so the caller can offer
// catalog-entry creation.
func (ix *Index) Lookup(code string) (LookupResult, bool) {
	snap := ix.Current()
	hit, ok := snap.byCode[normalizeCode(code)]
	if !ok {
		return LookupResult{}, false
	}
	return LookupResult{Product: hit.product, Variation: hit.variation}, true
}

// Product returns an active product by id.
func (ix *Index) Product(id uuid.UUID) (*entity.Product, bool) {
	snap := ix.Current()
	p, ok := snap.byID[id]
	return p, ok
}

// VariationByID returns an active variation and its owning product.
func (ix *Index) VariationByID(id uuid.UUID) (*entity.Product, *entity.Variation, bool) {
	snap := ix.Current()
	hit, ok := snap.varByID[id]
	if !ok {
		return nil, nil, false
	}
	return hit.product, hit.variation, ok
}

// UnitByID returns an active selling unit and its owning product.
func (ix *Index) UnitByID(id uuid.UUID) (*entity.Product, *entity.SellingUnit, bool) {
	snap := ix.Current()
	hit, ok := snap.unitByID[id]
	if !ok {
		return nil, nil, false
	}
	return hit.product, hit.unit, ok
}

// Search returns active products whose name contains the query,
// case-insensitively. It backs the terminal's manual search box.
func (ix *Index) Search(query string, limit int) []entity.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}
	snap := ix.Current()
	var out []entity.Product
	for i := range snap.Products {
		p := &snap.Products[i]
		if !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, *p)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
