package cmd

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const testLedger = `account[alice, "Alice A"];
account[bob, "Bob B"];
iou[2024.01.15, 100, alice, bob, "loan"];
iou[2024.02.01, 10/0, bob, alice, "typo"];
`

// setup points the global flags to a ledger file and captures the output.
func setup(t *testing.T, src string) *bytes.Buffer {
	t.Helper()
	file := filepath.Join(t.TempDir(), "ledger.txt")
	if err := os.WriteFile(file, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	oldFile, oldToday, oldOut := *sourceFile, *todayFlag, stdout
	var out bytes.Buffer
	*sourceFile, *todayFlag, stdout = file, "2024.06.01", &out
	t.Cleanup(func() { *sourceFile, *todayFlag, stdout = oldFile, oldToday, oldOut })
	return &out
}

// execute runs the subcommand c with args.
func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: invalid args %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestDecodeLedger(t *testing.T) {
	setup(t, testLedger)
	l, err := DecodeLedger(context.Background())
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	if got := l.Today().String(); got != "2024.06.01" {
		t.Errorf("Today() = %s, want 2024.06.01", got)
	}
	if got := len(l.Warnings); got != 1 {
		t.Errorf("len(Warnings) = %d, want 1", got)
	}
	if got := l.Account("bob").Balance.StringFixed(2); got != "100.00" {
		t.Errorf("bob balance = %s, want 100.00", got)
	}
}

func TestDecodeLedger_SyntaxError(t *testing.T) {
	setup(t, "account[alice];\n")
	if _, err := DecodeLedger(context.Background()); err == nil {
		t.Error("DecodeLedger() succeeded, want a syntax error")
	}
}

func TestTransactionsCSV(t *testing.T) {
	out := setup(t, testLedger)
	if got := execute(t, &transactionsCmd{}, "-csv"); got != subcommands.ExitSuccess {
		t.Fatalf("transactions -csv = %v, want success", got)
	}
	want := "Date,From,To,Amount,Description\n" +
		"2024-01-15,Alice A,Bob B,100.00,loan\n" +
		"2024-02-01,Bob B,Alice A,0.00,typo\n"
	if got := out.String(); got != want {
		t.Errorf("transactions -csv =\n%s\nwant\n%s", got, want)
	}
}

func TestStatement(t *testing.T) {
	out := setup(t, testLedger)
	if got := execute(t, &statementCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("statement without account = %v, want usage error", got)
	}
	if got := execute(t, &statementCmd{}, "-a", "carol"); got != subcommands.ExitFailure {
		t.Errorf("statement -a carol = %v, want failure", got)
	}
	if got := execute(t, &statementCmd{}, "-a", "bob"); got != subcommands.ExitSuccess {
		t.Fatalf("statement -a bob = %v, want success", got)
	}
	if !strings.Contains(out.String(), "# Statement of Bob B") {
		t.Errorf("statement -a bob =\n%s\nwant the statement title", out)
	}
}

func TestCheck(t *testing.T) {
	testCases := []struct {
		name     string
		response string
		want     subcommands.ExitStatus
		wantOut  string
	}{
		{
			name:     "match",
			response: `{"status":"success","data":{"balances":{"alice":-100,"bob":100.001}}}`,
			want:     subcommands.ExitSuccess,
			wantOut:  "balances match",
		},
		{
			name:     "differ",
			response: `{"status":"success","data":{"balances":{"alice":-90,"bob":90}}}`,
			want:     subcommands.ExitFailure,
			wantOut:  "alice: local -100.00, remote -90.00",
		},
		{
			name:     "remote error",
			response: `{"status":"error","error":"boom"}`,
			want:     subcommands.ExitFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := setup(t, testLedger)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.FormValue("ledger"), "account[alice") {
					t.Errorf("request ledger = %q, want the source", r.FormValue("ledger"))
				}
				w.Write([]byte(tc.response))
			}))
			defer ts.Close()

			if got := execute(t, &checkCmd{}, "-delegate", ts.URL, "-retries", "0"); got != tc.want {
				t.Errorf("check = %v, want %v", got, tc.want)
			}
			if !strings.Contains(out.String(), "warning: ") {
				t.Errorf("check output =\n%s\nwant the invalid amount warning", out)
			}
			if !strings.Contains(out.String(), tc.wantOut) {
				t.Errorf("check output =\n%s\nwant it to contain %q", out, tc.wantOut)
			}
		})
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " k1:9092, ,k2:9092")
	got := envList(EnvKafkaBrokers)
	if strings.Join(got, "|") != "k1:9092|k2:9092" {
		t.Errorf("envList() = %q, want [k1:9092 k2:9092]", got)
	}
}
