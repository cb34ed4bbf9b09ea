package taxreform

import (
	"github.com/google/go-cmp/cmp"
)

// cmpOpts compares decimal backed values by value.
var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b Amount) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Percent) bool { return a.Equal(b) }),
	cmp.AllowUnexported(Input{}),
}

// exit returns the exit of code c in exits, it panics if missing.
func exit(exits []TaxExit, c Code) TaxExit {
	for _, x := range exits {
		if x.Code == c {
			return x
		}
	}
	panic("no exit for " + c.String())
}

// entry returns the entry of code c in entries, it panics if missing.
func entry(entries []TaxEntry, c Code) TaxEntry {
	for _, e := range entries {
		if e.Code == c {
			return e
		}
	}
	panic("no entry for " + c.String())
}
