package ui

import "testing"

func TestLocalization_Fallbacks(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeyPause); got != "Pause" {
		t.Errorf("GetText(KeyPause) = %q, expected Pause", got)
	}

	l.SetLanguage("ru")
	if l.GetCurrentLanguage() != "ru" {
		t.Fatalf("language = %s, expected ru", l.GetCurrentLanguage())
	}
	if got := l.GetText(KeyPause); got != "Пауза" {
		t.Errorf("GetText(KeyPause) = %q", got)
	}
	// Missing Russian text falls back to English
	if got := l.GetText(KeyMP4); got != "MP4" {
		t.Errorf("GetText(KeyMP4) = %q, expected MP4", got)
	}
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("GetText(unknown) = %q, expected the key", got)
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("unsupported language kept %s", l.GetCurrentLanguage())
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"ru-RU": "ru",
		"en_US": "en",
		"pt-BR": "pt",
		"":      "en",
	}
	for in, expected := range tests {
		if got := baseLanguage(in); got != expected {
			t.Errorf("baseLanguage(%q) = %q, expected %q", in, got, expected)
		}
	}
}
