package cmd

import (
	"flag"
	"testing"

	"github.com/cyclescope/spxpulse"
)

func TestParseDays(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{"default", nil, 30, false},
		{"explicit", []string{"7"}, 7, false},
		{"not a number", []string{"week"}, 0, true},
		{"zero", []string{"0"}, 0, true},
		{"negative", []string{"--", "-3"}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := flag.NewFlagSet("test", flag.ContinueOnError)
			if err := f.Parse(c.args); err != nil {
				t.Fatalf("flag parse: %v", err)
			}
			got, err := parseDays(f)
			if (err != nil) != c.wantErr {
				t.Fatalf("parseDays(%v) error = %v, wantErr %v", c.args, err, c.wantErr)
			}
			if err == nil && got != c.want {
				t.Errorf("parseDays(%v) = %d, want %d", c.args, got, c.want)
			}
		})
	}
}

func TestFetchFlagsConfig(t *testing.T) {
	var ff fetchFlags
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	ff.SetFlags(f)
	if err := f.Parse([]string{"-no-verify", "-tolerance", "0.01", "-tz", "Europe/Paris"}); err != nil {
		t.Fatalf("flag parse: %v", err)
	}

	cfg := ff.config(7)
	want := spxpulse.Config{
		WindowSize:          7,
		VerificationEnabled: false,
		Tolerance:           0.01,
		CloseHour:           spxpulse.DefaultCloseHour,
		Timezone:            "Europe/Paris",
	}
	if cfg != want {
		t.Errorf("config() = %+v, want %+v", cfg, want)
	}
}

func TestFetchFlagsDefaults(t *testing.T) {
	var ff fetchFlags
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	ff.SetFlags(f)
	if err := f.Parse(nil); err != nil {
		t.Fatalf("flag parse: %v", err)
	}
	if got, want := ff.config(30), spxpulse.DefaultConfig(); got != want {
		t.Errorf("config() defaults = %+v, want %+v", got, want)
	}
}
