package review

import (
	"errors"
	"testing"

	"github.com/abadojack/whatlanggo"
)

func TestWhatlangDetector(t *testing.T) {
	d := WhatlangDetector{}
	tests := []struct {
		text string
		want string
	}{
		{"The claims department answered quickly and the price of my car insurance is very reasonable.", "en"},
		{"Bonjour, ceci est un avis sur mon assurance auto. Le service client est vraiment très agréable et les prix sont corrects.", "fr"},
		{"Aceasta este o recenzie despre asigurarea mea auto. Serviciul pentru clienți este foarte bun și prețurile sunt corecte.", "ro"},
	}
	for _, tt := range tests {
		got, err := d.Detect(tt.text)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestWhatlangDetectorReturnsCodes(t *testing.T) {
	d := WhatlangDetector{}
	for _, text := range []string{"Great service", "Slow response", "ok"} {
		got, err := d.Detect(text)
		if err != nil {
			continue
		}
		if len(got) < 2 || len(got) > 3 {
			t.Errorf("Detect(%q) = %q, want a language code", text, got)
		}
	}
}

func TestWhatlangDetectorWhitelist(t *testing.T) {
	d := WhatlangDetector{Options: whatlanggo.Options{
		Whitelist: map[whatlanggo.Lang]bool{whatlanggo.Eng: true, whatlanggo.Ron: true},
	}}
	got, err := d.Detect("Aceasta este o recenzie despre asigurarea mea auto, serviciul este foarte bun.")
	if err != nil || got != "ro" {
		t.Errorf("Detect = %q, %v; want ro", got, err)
	}
}

func TestWhatlangDetectorUndetectable(t *testing.T) {
	_, err := WhatlangDetector{}.Detect("1234 !!!")
	if !errors.Is(err, ErrUndetectable) {
		t.Errorf("err = %v, want ErrUndetectable", err)
	}
}
