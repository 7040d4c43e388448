package tree

import (
	"testing"
)

const whatDoesMinecraftFeature = `(ROOT (SBARQ (WHNP (WP What)) (SQ (VBZ does) (NP (NNP Minecraft)) (VP (VB feature))) (. ?)))`

func TestFind_FirstLevelOnly(t *testing.T) {
	root := MustParse(whatDoesMinecraftFeature)
	q := root.Unwrap()

	if got := Find(q, Labels(LabelInverted), 1, false); got == nil || got.Label != LabelInverted {
		t.Fatalf("expected SQ child, got %v", got)
	}

	// NP sits one level below SQ, so a flat search must miss it
	if got := Find(q, Labels(LabelNP), 1, false); got != nil {
		t.Errorf("expected no NP at first level, got %v", got)
	}
}

func TestFind_ExpandsBreadthFirst(t *testing.T) {
	root := MustParse(whatDoesMinecraftFeature)
	sq := Find(root.Unwrap(), Labels(LabelInverted), 1, false)

	first := Find(sq, VerbTag, 1, true)
	if first == nil || first.Text() != "does" {
		t.Fatalf("expected first verb 'does', got %v", first)
	}

	second := Find(sq, VerbTag, 2, true)
	if second == nil || second.Text() != "feature" {
		t.Fatalf("expected second verb 'feature', got %v", second)
	}

	if third := Find(sq, VerbTag, 3, true); third != nil {
		t.Errorf("expected no third verb, got %v", third)
	}
}

func TestFind_NearestMatchFirst(t *testing.T) {
	// The shallow NP must win over the deeper one even though the deeper
	// one comes first left to right.
	root := MustParse(`(X (Y (NP (NN deep))) (NP (NN shallow)))`)

	got := Find(root, Labels(LabelNP), 1, true)
	if got == nil || got.Text() != "shallow" {
		t.Fatalf("expected shallow NP, got %v", got)
	}

	got = Find(root, Labels(LabelNP), 2, true)
	if got == nil || got.Text() != "deep" {
		t.Fatalf("expected deep NP as second match, got %v", got)
	}
}

func TestFind_LabelSetAndPredicate(t *testing.T) {
	root := MustParse(`(SBARQ (WHADVP (WRB When)) (SQ (VBD was) (NP (NNP Minecraft)) (VP (VBN released))) (. ?))`)

	wh := Find(root, Labels(LabelWHNP, LabelWHADVP), 1, false)
	if wh == nil || wh.Label != LabelWHADVP {
		t.Fatalf("expected WHADVP, got %v", wh)
	}

	vbn := Find(root, Labels(LabelVBN), 1, true)
	if vbn == nil || vbn.Text() != "released" {
		t.Fatalf("expected VBN 'released', got %v", vbn)
	}
}

func TestFind_ZeroOccurrenceMeansFirst(t *testing.T) {
	root := MustParse(`(S (NP (NN a)) (NP (NN b)))`)
	if got := Find(root, Labels(LabelNP), 0, false); got == nil || got.Text() != "a" {
		t.Errorf("expected first NP, got %v", got)
	}
}

func TestFind_NilTree(t *testing.T) {
	if got := Find(nil, Labels(LabelNP), 1, true); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
