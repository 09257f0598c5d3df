package validate

import "testing"

func TestExtractNumbers(t *testing.T) {
	got := ExtractNumbers("Your total is $42.50 for flight UA 1234, 72° outside.")
	for _, want := range []string{"$42.50", "UA 1234", "72°"} {
		if _, ok := got[want]; !ok {
			t.Errorf("expected %q in extracted numbers %v", want, got)
		}
	}
}

func TestExtractDates(t *testing.T) {
	got := ExtractDates("Your package arrives tomorrow, the offer ends Friday.")
	if _, ok := got["tomorrow"]; !ok {
		t.Errorf("expected 'tomorrow' in %v", got)
	}
	if _, ok := got["friday"]; !ok {
		t.Errorf("expected 'friday' in %v", got)
	}
}

func TestExtractNames(t *testing.T) {
	got := ExtractNames("Your Delta flight and your Amazon order have both shipped.")
	if _, ok := got["delta"]; !ok {
		t.Errorf("expected 'delta' in %v", got)
	}
	if _, ok := got["amazon"]; !ok {
		t.Errorf("expected 'amazon' in %v", got)
	}
	if _, ok := got["united"]; ok {
		t.Errorf("did not expect 'united' in %v", got)
	}
}

func TestVerifyAcceptsGroundedText(t *testing.T) {
	sources := []SourceText{{Subject: "Your Delta flight DL1234 departs Friday", Snippet: "Total due: $42.50"}}
	ok, errs := Verify("Your Delta flight DL1234 leaves Friday, totaling $42.50.", sources)
	if !ok {
		t.Errorf("expected grounded text to verify, got errors: %v", errs)
	}
}

func TestVerifyRejectsFabricatedNumber(t *testing.T) {
	sources := []SourceText{{Subject: "Your order has shipped", Snippet: "Thanks for your business."}}
	ok, errs := Verify("Your order total was $999.99.", sources)
	if ok {
		t.Error("expected fabricated amount to fail verification")
	}
	if len(errs) == 0 {
		t.Error("expected at least one verification error")
	}
}

func TestVerifyRejectsFabricatedName(t *testing.T) {
	sources := []SourceText{{Subject: "Your order has shipped", Snippet: "Thanks for your business."}}
	ok, _ := Verify("Don't forget your Netflix subscription renews soon.", sources)
	if ok {
		t.Error("expected fabricated merchant name to fail verification")
	}
}
