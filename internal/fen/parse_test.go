package fen

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Record
		wantErr bool
	}{
		{
			name:  "starting position",
			input: Start,
			want: Record{
				Placement: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
				Turn:      "w", Castling: "KQkq", EnPassant: "-", HalfMove: 0, FullMove: 1,
			},
		},
		{
			name:  "position after e4",
			input: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			want: Record{
				Placement: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR",
				Turn:      "b", Castling: "KQkq", EnPassant: "e3", HalfMove: 0, FullMove: 1,
			},
		},
		{
			name:  "counters omitted",
			input: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - -",
			want: Record{
				Placement: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R",
				Turn:      "w", Castling: "-", EnPassant: "-", HalfMove: 0, FullMove: 1,
			},
		},
		{
			name:  "middlegame counters",
			input: "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
			want: Record{
				Placement: "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R",
				Turn:      "w", Castling: "KQkq", EnPassant: "-", HalfMove: 4, FullMove: 4,
			},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "too few fields",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
			wantErr: true,
		},
		{
			name:    "invalid side to move",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
			wantErr: true,
		},
		{
			name:    "invalid piece placement - wrong rank count",
			input:   "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			wantErr: true,
		},
		{
			name:    "invalid piece placement - wrong square count",
			input:   "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			wantErr: true,
		},
		{
			name:    "invalid fullmove",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 zero",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecord_String(t *testing.T) {
	r, err := Parse("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - -")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - - 0 1"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSideToMove(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "white to move",
			input: Start,
			want:  "w",
		},
		{
			name:  "black to move",
			input: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			want:  "b",
		},
		{
			name:    "invalid side",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
			wantErr: true,
		},
		{
			name:    "missing side",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SideToMove(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("SideToMove() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("SideToMove() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFullMoveNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{Start, 1},
		{"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4", 4},
		{"8/8/8/4k3/8/8/4K3/4R3 b - -", 1},
	}

	for _, tt := range tests {
		got, err := FullMoveNumber(tt.input)
		if err != nil {
			t.Fatalf("FullMoveNumber(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("FullMoveNumber(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMirror(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "starting position",
			input: Start,
			want:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			name:  "after e4",
			input: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			want:  "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1",
		},
		{
			name:  "partial castling rights",
			input: "r3k3/8/8/8/8/8/8/4K2R w Kq - 3 20",
			want:  "4k2r/8/8/8/8/8/8/R3K3 b Qk - 3 20",
		},
		{
			name:    "bad en passant",
			input:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mirror(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Mirror() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Mirror() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMirror_Involution(t *testing.T) {
	input := "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
	once, err := Mirror(input)
	if err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
	twice, err := Mirror(once)
	if err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
	if twice != input {
		t.Errorf("Mirror(Mirror(x)) = %q, want %q", twice, input)
	}
}

func BenchmarkParse(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(Start)
	}
}
