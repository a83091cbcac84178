package command

import "testing"

func TestParseSimpleDelete(t *testing.T) {
	c, err := Parse("2,4d")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'd' || c.Addr == nil || c.Addr.Left.Line != 2 || c.Addr.Right.Line != 4 {
		t.Fatalf("got %+v", c)
	}
}

func TestParseAppendDelimited(t *testing.T) {
	c, err := Parse(`1a/hello\/world/`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'a' || c.Text != "hello/world" {
		t.Errorf("got %+v", c)
	}
}

func TestParseInsertHereText(t *testing.T) {
	c, err := Parse("1i some text")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'i' || c.Text != " some text" {
		t.Errorf("got Text=%q", c.Text)
	}
}

func TestParseSubstitute(t *testing.T) {
	c, err := Parse(`1,$s/foo/bar/g`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 's' || c.Regex != "foo" || c.Replacement != "bar" || c.Flags != "g" {
		t.Errorf("got %+v", c)
	}
}

func TestParseSubstituteNth(t *testing.T) {
	c, err := Parse(`s/a/b/2`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Flags != "2" {
		t.Errorf("Flags = %q, want %q", c.Flags, "2")
	}
}

func TestParseXLoop(t *testing.T) {
	c, err := Parse(`1,$x/foo/ d`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'x' || c.Regex != "foo" || c.Sub == nil || c.Sub.Verb != 'd' {
		t.Errorf("got %+v", c)
	}
}

func TestParseXLoopBodyless(t *testing.T) {
	c, err := Parse(`,x/^[a-z]+$/`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'x' || c.Regex != "^[a-z]+$" || c.Sub != nil {
		t.Errorf("got %+v, want bodyless x with nil Sub", c)
	}
}

func TestParseGLoopBodyless(t *testing.T) {
	c, err := Parse(`1g/foo/`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'g' || c.Regex != "foo" || c.Sub != nil {
		t.Errorf("got %+v, want bodyless g with nil Sub", c)
	}
}

func TestParseXLoopBodylessInsideGroup(t *testing.T) {
	c, err := Parse(`1{x/foo/;d}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != '{' || len(c.Body) != 2 {
		t.Fatalf("got %+v", c)
	}
	if c.Body[0].Verb != 'x' || c.Body[0].Sub != nil {
		t.Errorf("Body[0] = %+v, want bodyless x", c.Body[0])
	}
	if c.Body[1].Verb != 'd' {
		t.Errorf("Body[1] = %+v, want d", c.Body[1])
	}
}

func TestParseGroup(t *testing.T) {
	c, err := Parse(`1{d;p}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != '{' || len(c.Body) != 2 || c.Body[0].Verb != 'd' || c.Body[1].Verb != 'p' {
		t.Errorf("got %+v", c)
	}
}

func TestParseGroupUnterminated(t *testing.T) {
	_, err := Parse(`1{d`)
	if err == nil {
		t.Fatal("expected unmatched brace error")
	}
}

func TestParsePipe(t *testing.T) {
	c, err := Parse(`1,$|sort`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != '|' || c.Arg != "sort" {
		t.Errorf("got %+v", c)
	}
}

func TestParseWritePath(t *testing.T) {
	c, err := Parse(`w out.txt`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'w' || c.Arg != "out.txt" {
		t.Errorf("got %+v", c)
	}
}

func TestParseQuitForce(t *testing.T) {
	c, err := Parse(`q!`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'q' || !c.Force {
		t.Errorf("got %+v", c)
	}
}

func TestParseMarkCommand(t *testing.T) {
	c, err := Parse(`.k x`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Verb != 'k' || c.Mark != "x" {
		t.Errorf("got %+v", c)
	}
}

func TestParseUnknownVerb(t *testing.T) {
	_, err := Parse("1z")
	if err == nil {
		t.Fatal("expected error for unknown verb")
	}
}

func TestParseTrailingInput(t *testing.T) {
	_, err := Parse("1d extra")
	if err == nil {
		t.Fatal("expected trailing input error")
	}
}
