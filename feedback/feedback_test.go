package feedback

import "testing"

func TestComputeDuplicateLetterReferenceCases(t *testing.T) {
	tests := []struct {
		guess, solution string
		want            Feedback
	}{
		{"clump", "perch", Feedback{Present, Absent, Absent, Absent, Present}},
		{"perch", "clump", Feedback{Present, Absent, Absent, Present, Absent}},
		{"tuner", "exits", Feedback{Present, Absent, Absent, Present, Absent}},
		{"doozy", "yahoo", Feedback{Absent, Present, Present, Absent, Present}},
		{"preen", "hyper", Feedback{Present, Present, Absent, Correct, Absent}},
		{"hyper", "upper", Feedback{Absent, Absent, Correct, Correct, Correct}},
		{"ulama", "offal", Feedback{Absent, Present, Present, Absent, Absent}},
	}

	for _, tt := range tests {
		t.Run(tt.guess+"_"+tt.solution, func(t *testing.T) {
			got := Compute(tt.guess, tt.solution)
			if got != tt.want {
				t.Errorf("Compute(%q, %q) = %v, want %v", tt.guess, tt.solution, got, tt.want)
			}
		})
	}
}

func TestComputeSelfMatchIsAllCorrect(t *testing.T) {
	words := []string{"trace", "crate", "tepee", "venom"}
	for _, w := range words {
		fb := Compute(w, w)
		if Encode(fb) != MaxValue {
			t.Errorf("Compute(%q, %q) encoded = %d, want %d", w, w, Encode(fb), MaxValue)
		}
	}
}

func TestComputeIsNotSymmetric(t *testing.T) {
	forward := Compute("tepee", "venom")
	backward := Compute("venom", "tepee")

	reversed := forward
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	if backward == reversed {
		t.Errorf("expected Compute(g,s) to not merely be reverse(Compute(s,g)) for duplicate-letter case")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"trace", "crate"},
		{"aaaaa", "zzzzz"},
		{"hyper", "upper"},
	}

	for _, p := range pairs {
		fb := Compute(p[0], p[1])
		decoded := Decode(Encode(fb))
		if decoded != fb {
			t.Errorf("Decode(Encode(%v)) = %v, want %v", fb, decoded, fb)
		}
	}
}

func TestEncodeMaxValue(t *testing.T) {
	allCorrect := Feedback{Correct, Correct, Correct, Correct, Correct}
	if got := Encode(allCorrect); got != MaxValue {
		t.Errorf("Encode(all-correct) = %d, want %d", got, MaxValue)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text   string
		wantFb Feedback
		wantOK bool
	}{
		{"ccccc", Feedback{Correct, Correct, Correct, Correct, Correct}, true},
		{"ppppp", Feedback{Present, Present, Present, Present, Present}, true},
		{"_-a_-", Feedback{Absent, Absent, Absent, Absent, Absent}, true},
		{"CpC_a", Feedback{Correct, Present, Correct, Absent, Absent}, true},
		{"cpcx_", Feedback{}, false},
		{"cpc", Feedback{}, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.text)
		if ok != tt.wantOK {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.wantFb {
			t.Errorf("Parse(%q) = %v, want %v", tt.text, got, tt.wantFb)
		}
	}
}

func TestDisplay(t *testing.T) {
	fb := Feedback{Correct, Present, Absent, Absent, Absent}
	got := Display(fb)
	want := "🟩🟨⬜⬜⬜"
	if got != want {
		t.Errorf("Display(%v) = %q, want %q", fb, got, want)
	}
}
