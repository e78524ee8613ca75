package evaluator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxlang/flux/internal/evaluator"
	"github.com/fluxlang/flux/internal/parser"
	"github.com/fluxlang/flux/internal/source"
)

// run parses text as a full Flux program and executes it, returning
// stdout and the process exit code. Parse errors fail the test
// immediately since a scenario's source is expected to be grammatical.
func run(t *testing.T, text string) (string, int) {
	t.Helper()
	src := source.New("test.flux", text)
	diags := source.NewCollector()
	p := parser.New(src, diags)
	prog := p.ParseProgram("test.flux")
	if diags.HadErrors() {
		for _, d := range diags.Diagnostics() {
			t.Logf("%s: %s", d.Level, d.Message)
		}
		t.Fatal("expected no parse errors")
	}
	var out bytes.Buffer
	ev := evaluator.New(&out, nil, diags)
	code := ev.Run(prog)
	return out.String(), code
}

func TestEvalPrintHello(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    print("hi");
    return 0;
}
`)
	assert.Equal(t, "hi\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

func TestEvalPointerArithmetic(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    int x = 10;
    int* p = @x;
    *p = *p + 5;
    print(x);
    return 0;
}
`)
	assert.Equal(t, "15\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

func TestEvalObjectMethodInterpolatedGreeting(t *testing.T) {
	out, code := run(t, `
class Greeter {
    string name;

    def __init(string n) -> void {
        name = n;
    }

    def greet() -> string {
        return i"Hello, {}!":{name;};
    }
}

def main() -> int {
    Greeter g = Greeter("World");
    print(g.greet());
    return 0;
}
`)
	assert.Equal(t, "Hello, World!\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

func TestEvalDivisionByZeroCaught(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    int x = 0;
    try {
        int y = 10 / x;
        print("unreachable");
    } catch (auto e) {
        print("caught");
    }
    return 0;
}
`)
	assert.Equal(t, "caught\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

// TestEvalExprMagicMethodInterpolation checks that interpolating an
// Object into an i-string calls its __expr magic method rather than the
// generic field-dump Inspect() text.
func TestEvalExprMagicMethodInterpolation(t *testing.T) {
	out, code := run(t, `
class Point {
    int x;
    int y;

    def __init(int px, int py) -> void {
        x = px;
        y = py;
    }

    def __expr() -> string {
        return i"({}, {})":{x; y;};
    }
}

def main() -> int {
    Point p = Point(3, 4);
    print(i"point is {}":{p;});
    return 0;
}
`)
	assert.Equal(t, "point is (3, 4)\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

// TestEvalForEachOverArrayLiteral exercises the foreach control-flow
// mechanism over an array literal, since the grammar has no range
// literal (`1..5`) to iterate over directly.
func TestEvalForEachOverArrayLiteral(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    for (i in [1, 2, 3, 4]) {
        print(i);
    }
    return 0;
}
`)
	assert.Equal(t, "1\n2\n3\n4\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

// TestEvalClassInheritanceAndSuperNavigation covers single inheritance,
// a nested object group override, and a super.Parent.Group.method()
// navigation chain reaching the ancestor's own implementation.
func TestEvalClassInheritanceAndSuperNavigation(t *testing.T) {
	out, code := run(t, `
class Animal {
    string name;

    def __init(string n) -> void {
        name = n;
    }

    object Actions {
        def speak() -> string {
            return "...";
        }
    }
}

class Dog :Animal {
    object Actions :Animal.Actions {
        def speak() -> string {
            return i"{} barks instead of {}":{name; super.Animal.Actions.speak();};
        }
    }
}

def main() -> int {
    Dog d = Dog("Rex");
    print(d.Actions.speak());
    return 0;
}
`)
	assert.Equal(t, "Rex barks instead of ...\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

// TestEvalScopeDiscipline checks that a variable declared inside a block
// is erased once that block exits: referencing it afterward raises a
// name-resolution fault, catchable like any other exception.
func TestEvalScopeDiscipline(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    if (true) {
        int local = 5;
    }
    try {
        print(local);
    } catch (auto e) {
        print("undefined");
    }
    return 0;
}
`)
	assert.Equal(t, "undefined\n", out)
	assert.Equal(t, evaluator.ExitOK, code)
}

// TestEvalTruncatingDivisionProperty checks (a/b)*b + a%b == a across a
// table of signed operands, including negative dividends and divisors,
// matching C's truncate-toward-zero division and sign-following modulo.
func TestEvalTruncatingDivisionProperty(t *testing.T) {
	cases := []struct{ a, b int64 }{
		{7, 2}, {-7, 2}, {7, -2}, {-7, -2},
		{1, 3}, {-1, 3}, {100, 7}, {-100, 7},
	}
	for _, c := range cases {
		src := `
def main() -> int {
    int a = ` + itoa(c.a) + `;
    int b = ` + itoa(c.b) + `;
    int q = a / b;
    int r = a % b;
    print(q * b + r);
    return 0;
}
`
		out, code := run(t, src)
		require.Equal(t, evaluator.ExitOK, code)
		assert.Equal(t, itoa(c.a)+"\n", out, "a=%d b=%d", c.a, c.b)
	}
}

func itoa(v int64) string {
	if v < 0 {
		return "-" + uitoa(uint64(-v))
	}
	return uitoa(uint64(v))
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

func TestEvalUncaughtExceptionExitCode(t *testing.T) {
	out, code := run(t, `
def main() -> int {
    int x = 0;
    int y = 10 / x;
    return 0;
}
`)
	assert.Equal(t, "", out)
	assert.Equal(t, evaluator.ExitUncaught, code)
}

func TestEvalMissingEntryPoint(t *testing.T) {
	out, code := run(t, `
def helper() -> int {
    return 1;
}
`)
	assert.Equal(t, "", out)
	assert.Equal(t, evaluator.ExitNoEntryPoint, code)
}
