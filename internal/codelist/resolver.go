package codelist

import "github.com/rezonia/eu-einvoice/internal/model"

// Candidate is one (classifier kind, classifier value) pair to look up.
type Candidate struct {
	Kind  string
	Value string
}

// Resolver finds the best-matching standardized code for a list of
// candidate classifier values, degrading to per-list defaults and finally
// to a static fallback code.
type Resolver struct {
	store    Store
	lists    []string
	fallback string
}

// NewResolver creates a resolver over the given code lists, consulted in
// priority order. The fallback is the static default returned when neither
// a match nor a list default exists.
func NewResolver(store Store, lists []string, fallback string) *Resolver {
	return &Resolver{store: store, lists: lists, fallback: fallback}
}

// Resolve returns the first code found for any candidate, searching code
// lists in priority order. Within a code list, candidates are tried in the
// order given and the first hit wins; once a list yields a hit, no further
// list is consulted. Candidates with an empty value are skipped. If no list
// yields a hit, the lists' configured default codes are tried in the same
// priority order, then the static fallback. A resolver without a fallback
// that exhausts all sources reports a configuration error.
func (r *Resolver) Resolve(candidates ...Candidate) (string, error) {
	if code := r.lookup(candidates); code != "" {
		return code, nil
	}
	for _, list := range r.lists {
		if code := r.store.DefaultCode(list); code != "" {
			return code, nil
		}
	}
	if r.fallback == "" {
		return "", model.NewConfigError("codelist", "no code found and no default code configured")
	}
	return r.fallback, nil
}

func (r *Resolver) lookup(candidates []Candidate) string {
	for _, list := range r.lists {
		for _, c := range candidates {
			if c.Value == "" {
				continue
			}
			if codes := r.store.CodesFor(list, c.Kind, c.Value); len(codes) > 0 {
				return codes[0]
			}
		}
	}
	return ""
}

// Resolvers bundles the standard resolvers used during mapping, each with
// the static fallback the Factur-X profile expects.
type Resolvers struct {
	UOM          *Resolver
	PaymentMeans *Resolver
	TaxCategory  *Resolver
	VATExemption *Resolver
}

// NewResolvers creates the standard resolver set over a store.
func NewResolvers(store Store) Resolvers {
	return Resolvers{
		UOM:          NewResolver(store, []string{ListUOMRec20, ListUOMRec21}, "C62"),
		PaymentMeans: NewResolver(store, []string{ListPaymentMeans}, "ZZZ"),
		TaxCategory:  NewResolver(store, []string{ListTaxCategory}, "S"),
		VATExemption: NewResolver(store, []string{ListVATExemption}, "vatex-eu-ae"),
	}
}
