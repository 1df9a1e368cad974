package review

// Columns names the physical columns holding each review field.
type Columns struct {
	Date    string `mapstructure:"date" json:"date"`
	Product string `mapstructure:"product" json:"product"`
	Insurer string `mapstructure:"insurer" json:"insurer"`
	Review  string `mapstructure:"review" json:"review"`
	Rating  string `mapstructure:"rating" json:"rating"`
}

// DefaultColumns returns the column names of the translated review export.
func DefaultColumns() Columns {
	return Columns{
		Date:    "date_publication",
		Product: "produit",
		Insurer: "assureur",
		Review:  "avis_en",
		Rating:  "note",
	}
}

var fallbackColumns = struct {
	Date    []string
	Product []string
	Insurer []string
	Review  []string
	Rating  []string
}{
	Date:    []string{"date_publication", "date", "published_at", "publication_date"},
	Product: []string{"produit", "product"},
	Insurer: []string{"assureur", "insurer", "company"},
	Review:  []string{"avis_en", "review_en", "review", "text", "avis"},
	Rating:  []string{"note", "rating", "stars", "score"},
}

// withDefaults fills empty names from DefaultColumns and normalizes all of them.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	pick := func(v, fallback string) string {
		if v == "" {
			v = fallback
		}
		return NormalizeColumnName(v)
	}
	return Columns{
		Date:    pick(c.Date, d.Date),
		Product: pick(c.Product, d.Product),
		Insurer: pick(c.Insurer, d.Insurer),
		Review:  pick(c.Review, d.Review),
		Rating:  pick(c.Rating, d.Rating),
	}
}

// Resolve keeps configured names present in t and otherwise falls back to the first
// known alias found in the header.
func (c Columns) Resolve(t *Table) Columns {
	c = c.withDefaults()
	resolve := func(configured string, candidates []string) string {
		if t.HasColumn(configured) {
			return configured
		}
		for _, cand := range candidates {
			if t.HasColumn(cand) {
				return NormalizeColumnName(cand)
			}
		}
		return configured
	}
	return Columns{
		Date:    resolve(c.Date, fallbackColumns.Date),
		Product: resolve(c.Product, fallbackColumns.Product),
		Insurer: resolve(c.Insurer, fallbackColumns.Insurer),
		Review:  resolve(c.Review, fallbackColumns.Review),
		Rating:  resolve(c.Rating, fallbackColumns.Rating),
	}
}
