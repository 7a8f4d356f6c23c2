package encryption

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

const testKey = "80b33216c772547c5b0b34dc6adf55d9"

func mustParseKey(t *testing.T, s string) Key {
	t.Helper()
	key, err := ParseKey(s)
	if err != nil {
		t.Fatalf("ParseKey(%q) unexpected error: %v", s, err)
	}
	return key
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    Key
		wantErr bool
	}{
		{name: "lowercase", key: "0a9f", want: Key{0, 10, 9, 15}},
		{name: "uppercase", key: "0A9F", want: Key{0, 10, 9, 15}},
		{name: "non-hex character", key: "0a9g", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("ParseKey() err = %v, want ErrInvalidKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey() unexpected error: %v", err)
			}
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestKey_String(t *testing.T) {
	if got := mustParseKey(t, "DEADbeef").String(); got != "deadbeef" {
		t.Errorf("String() = %s, want deadbeef", got)
	}
}

func TestKey_Fingerprint(t *testing.T) {
	a := mustParseKey(t, testKey).Fingerprint()
	b := mustParseKey(t, strings.ToUpper(testKey)).Fingerprint()
	if a != b {
		t.Errorf("Fingerprint() differs by case: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Fingerprint() length = %d, want 16", len(a))
	}
	if strings.Contains(testKey, a) {
		t.Errorf("Fingerprint() leaks the key")
	}
}

func TestDiffusionSchedule(t *testing.T) {
	got, err := DiffusionSchedule(mustParseKey(t, testKey), MaxRounds)
	if err != nil {
		t.Fatalf("DiffusionSchedule() unexpected error: %v", err)
	}
	want := []DiffusionRound{
		{BlockSize: 22, X: 19, Y: 14}, // 8 0 b 3
		{BlockSize: 12, X: 6, Y: 9},   // 3 2 1 6
		{BlockSize: 28, X: 26, Y: 16}, // c 7 7 2
		{BlockSize: 28, X: 16, Y: 23}, // 5 4 7 c
		{BlockSize: 27, X: 16, Y: 22}, // 5 b 0 b
		{BlockSize: 32, X: 20, Y: 29}, // 3 4 d c
		{BlockSize: 44, X: 29, Y: 38}, // 6 a d f
		{BlockSize: 32, X: 23, Y: 27}, // 5 5 d 9
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestSubstitutionSchedule(t *testing.T) {
	got, err := SubstitutionSchedule(mustParseKey(t, testKey), MaxRounds)
	if err != nil {
		t.Fatalf("SubstitutionSchedule() unexpected error: %v", err)
	}
	want := []SubstitutionRound{{23}, {29}, {20}, {16}, {16}, {26}, {6}, {19}}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestSchedule_FewerRounds(t *testing.T) {
	key := mustParseKey(t, testKey)

	diffusion, err := DiffusionSchedule(key[:8], 2)
	if err != nil {
		t.Fatalf("DiffusionSchedule() unexpected error: %v", err)
	}
	if len(diffusion) != 2 || diffusion[1].BlockSize != 12 {
		t.Errorf("DiffusionSchedule() = %+v, want 2 rounds ending with block size 12", diffusion)
	}

	substitution, err := SubstitutionSchedule(key, 3)
	if err != nil {
		t.Fatalf("SubstitutionSchedule() unexpected error: %v", err)
	}
	if diff := deep.Equal(substitution, []SubstitutionRound{{23}, {29}, {20}}); diff != nil {
		t.Error(diff)
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	key := mustParseKey(t, testKey)
	a, _ := DiffusionSchedule(key, MaxRounds)
	b, _ := DiffusionSchedule(key, MaxRounds)
	if diff := deep.Equal(a, b); diff != nil {
		t.Error(diff)
	}
	c, _ := SubstitutionSchedule(key, MaxRounds)
	d, _ := SubstitutionSchedule(key, MaxRounds)
	if diff := deep.Equal(c, d); diff != nil {
		t.Error(diff)
	}
}

func TestSchedule_Errors(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		rounds int
		sched  func(Key, int) error
		want   error
	}{
		{
			name: "diffusion key too short", key: testKey[:12], rounds: 4,
			sched: func(k Key, r int) error { _, err := DiffusionSchedule(k, r); return err },
			want:  ErrInvalidKey,
		},
		{
			name: "diffusion too many rounds", key: testKey + testKey, rounds: 9,
			sched: func(k Key, r int) error { _, err := DiffusionSchedule(k, r); return err },
			want:  ErrInvalidKey,
		},
		{
			name: "diffusion zero rounds", key: testKey, rounds: 0,
			sched: func(k Key, r int) error { _, err := DiffusionSchedule(k, r); return err },
			want:  ErrInvalidKey,
		},
		{
			name: "diffusion zero block size", key: "0000" + testKey[4:], rounds: 1,
			sched: func(k Key, r int) error { _, err := DiffusionSchedule(k, r); return err },
			want:  ErrInvalidBlockSize,
		},
		{
			name: "substitution needs the whole key", key: testKey[:28], rounds: 1,
			sched: func(k Key, r int) error { _, err := SubstitutionSchedule(k, r); return err },
			want:  ErrInvalidKey,
		},
		{
			name: "substitution zero block size", key: testKey[:28] + "0009", rounds: 1,
			sched: func(k Key, r int) error { _, err := SubstitutionSchedule(k, r); return err },
			want:  ErrInvalidBlockSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sched(mustParseKey(t, tt.key), tt.rounds)
			if !errors.Is(err, tt.want) {
				t.Errorf("got err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey(DefaultKeySize)
	if err != nil {
		t.Fatalf("GenerateKey() unexpected error: %v", err)
	}
	if len(key) != DefaultKeySize {
		t.Fatalf("GenerateKey() length = %d, want %d", len(key), DefaultKeySize)
	}
	if _, err := ParseKey(key); err != nil {
		t.Errorf("GenerateKey() produced an unparseable key %q: %v", key, err)
	}

	other, _ := GenerateKey(DefaultKeySize)
	if other == key {
		t.Errorf("GenerateKey() returned the same key twice")
	}

	if _, err := GenerateKey(0); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("GenerateKey(0) err = %v, want ErrInvalidKey", err)
	}
}
