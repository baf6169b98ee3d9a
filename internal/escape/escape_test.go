package escape

import (
	"testing"
)

func TestFreezeNewline(t *testing.T) {
	frozen, m := Freeze("Hello\nWorld")

	if frozen != "Hello [T_0] World" {
		t.Errorf("unexpected frozen text: %q", frozen)
	}
	if v, ok := m.Lookup("[T_0]"); !ok || v != "\n" {
		t.Errorf("expected [T_0] -> \\n, got %q (ok=%v)", v, ok)
	}

	// 模拟上游返回
	thawed := Thaw("你好 [T_0] 世界", m)
	if thawed != "你好\n世界" {
		t.Errorf("unexpected thawed text: %q", thawed)
	}
}

func TestFreezeHTMLTags(t *testing.T) {
	frozen, m := Freeze("<b>Hi</b>")

	if frozen != " [T_0] Hi [T_1] " {
		t.Errorf("unexpected frozen text: %q", frozen)
	}

	thawed := Thaw(" [T_0] 你好 [T_1] ", m)
	if thawed != "<b>你好</b>" {
		t.Errorf("unexpected thawed text: %q", thawed)
	}
}

func TestFreezeMatchKinds(t *testing.T) {
	cases := []struct {
		input string
		want  string // 第一个被冻结的片段
	}{
		{"a{{var}}b", "{{var}}"},
		{"a<ruby=\"x\">b", "<ruby=\"x\">"},
		{`a\r\nb`, `\r\n`},
		{`a\nb`, `\n`},
		{`a\tb`, `\t`},
		{"a\r\nb", "\r\n"},
		{"a\tb", "\t"},
	}

	for _, c := range cases {
		_, m := Freeze(c.input)
		if m.Len() != 1 {
			t.Errorf("Freeze(%q): expected 1 token, got %d", c.input, m.Len())
			continue
		}
		if v, _ := m.Lookup("[T_0]"); v != c.want {
			t.Errorf("Freeze(%q): expected %q, got %q", c.input, c.want, v)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"Hello\nWorld",
		"<b>Hi</b>",
		"plain text without anything fragile",
		"{{player}}获得了{{item}}\t×3",
		"line1\r\nline2\rline3",
		`escaped\nliteral\tmix`,
		"<ruby=\"くすし\">薬師</ruby>",
	}

	for _, input := range inputs {
		frozen, m := Freeze(input)
		if got := Thaw(frozen, m); got != input {
			t.Errorf("round trip failed for %q: got %q", input, got)
		}
	}
}

func TestThawUnknownToken(t *testing.T) {
	_, m := Freeze("no tokens here")

	// 映射中不存在的 key 保留纯 key，去掉周围空白
	if got := Thaw("a [T_7] b", m); got != "a[T_7]b" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestTokenNumbering(t *testing.T) {
	_, m := Freeze("a\nb\nc\nd")
	if m.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", m.Len())
	}
	for _, key := range []string{"[T_0]", "[T_1]", "[T_2]"} {
		if _, ok := m.Lookup(key); !ok {
			t.Errorf("missing token %s", key)
		}
	}
}

func TestMapsAreIndependent(t *testing.T) {
	_, m1 := Freeze("x\ny")
	_, m2 := Freeze("a\tb")

	v1, _ := m1.Lookup("[T_0]")
	v2, _ := m2.Lookup("[T_0]")
	if v1 != "\n" || v2 != "\t" {
		t.Errorf("maps leaked across Freeze calls: %q %q", v1, v2)
	}
}
