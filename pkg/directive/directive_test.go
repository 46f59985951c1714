package directive

import (
	"testing"
)

func TestExtractCommands(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantCleaned string
		wantNames   []string
	}{
		{
			name:        "embedded command",
			in:          "Abriendo. [CMD:discord] Listo.",
			wantCleaned: "Abriendo. Listo.",
			wantNames:   []string{"discord"},
		},
		{
			name:        "leading command",
			in:          "[CMD:administrador tareas] Revisa los procesos aquí.",
			wantCleaned: "Revisa los procesos aquí.",
			wantNames:   []string{"administrador tareas"},
		},
		{
			name:        "no directives",
			in:          "No hay nada que ejecutar.",
			wantCleaned: "No hay nada que ejecutar.",
			wantNames:   nil,
		},
		{
			name:        "duplicates preserved in order",
			in:          "[CMD:a] x [CMD:b] y [CMD:a]",
			wantCleaned: "x y",
			wantNames:   []string{"a", "b", "a"},
		},
		{
			name:        "case preserved in name",
			in:          "[CMD:Discord] ok",
			wantCleaned: "ok",
			wantNames:   []string{"Discord"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, names := ExtractCommands(tt.in)
			if cleaned != tt.wantCleaned {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
			}
			if len(names) != len(tt.wantNames) {
				t.Fatalf("names = %v, want %v", names, tt.wantNames)
			}
			for i := range names {
				if names[i] != tt.wantNames[i] {
					t.Errorf("names[%d] = %q, want %q", i, names[i], tt.wantNames[i])
				}
			}
		})
	}
}

func TestExtractSearches(t *testing.T) {
	got := ExtractSearches("Déjame ver. [SEARCH: qué es GitHub ] [search:clima madrid]")
	want := []string{"qué es GitHub", "clima madrid"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("queries = %v, want %v", got, want)
	}

	if got := ExtractSearches("sin búsquedas"); got != nil {
		t.Errorf("queries = %v, want nil", got)
	}
}

func TestTruncateContinuation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Claro que sí.\nUsuario: ¿y luego?", "Claro que sí."},
		{"Respuesta. Pregunta: otra cosa", "Respuesta."},
		{"Sin marcadores", "Sin marcadores"},
	}
	for _, tt := range tests {
		if got := TruncateContinuation(tt.in); got != tt.want {
			t.Errorf("TruncateContinuation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
