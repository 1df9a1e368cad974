package review

import "github.com/abadojack/whatlanggo"

// English is the only language the pipeline classifies.
const English = "en"

// LanguageDetector returns the ISO 639-1 code of text.
type LanguageDetector interface {
	Detect(text string) (string, error)
}

// WhatlangDetector is a trigram-based detector. Results on very short text are
// unreliable.
type WhatlangDetector struct {
	Options whatlanggo.Options
}

// Detect reports ErrUndetectable when no script or language can be identified.
// Languages without a two-letter code are reported by their ISO 639-3 code.
func (d WhatlangDetector) Detect(text string) (string, error) {
	info := whatlanggo.DetectWithOptions(text, d.Options)
	if info.Script == nil || info.Lang < 0 {
		return "", ErrUndetectable
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code, nil
	}
	return info.Lang.Iso6393(), nil
}
