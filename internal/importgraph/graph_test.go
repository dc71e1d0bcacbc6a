package importgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGraph(t *testing.T) {
	g := New()
	g.Add("com/example/A.kt", []string{
		"kotlin.Int",
		"kotlin.collections.List",
		"kotlin.math.max",
		"another.Foo as Foo_",
		"com.example.Outer.Inner",
	})
	g.Add("B.kt", nil)

	if diff := cmp.Diff([]string{"B.kt", "com/example/A.kt"}, g.Files()); diff != "" {
		t.Errorf("Files (-want +got):\n%s", diff)
	}
	want := []string{"another", "com.example", "kotlin", "kotlin.collections", "kotlin.math"}
	if diff := cmp.Diff(want, g.Packages("com/example/A.kt")); diff != "" {
		t.Errorf("Packages (-want +got):\n%s", diff)
	}

	wantDOT := `digraph imports {
  rankdir=LR;
  node [fontsize=12];

  "B.kt" [shape=box];
  "com/example/A.kt" [shape=box];
  "another" [shape=ellipse];
  "com.example" [shape=ellipse];
  "kotlin" [shape=ellipse];
  "kotlin.collections" [shape=ellipse];
  "kotlin.math" [shape=ellipse];

  "com/example/A.kt" -> "another";
  "com/example/A.kt" -> "com.example";
  "com/example/A.kt" -> "kotlin";
  "com/example/A.kt" -> "kotlin.collections";
  "com/example/A.kt" -> "kotlin.math";
}
`
	if diff := cmp.Diff(wantDOT, g.DOT()); diff != "" {
		t.Errorf("DOT (-want +got):\n%s", diff)
	}
}

func TestPackageOfDefault(t *testing.T) {
	if got := packageOf("Foo"); got != DefaultPackage {
		t.Errorf("packageOf(Foo) = %q", got)
	}
}
