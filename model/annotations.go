package model

// AnnotationEntry carries the human supplied extras for one parameter.
type AnnotationEntry struct {
	// Name is the parameter the entry refers to.
	Name string
	// Flags are explicit flag names, each "-x" or "--long", in the order written.
	Flags []string
	// Help is the free text help, whitespace folded.
	Help string
	// Action is the legacy action token (store_true, store_false, store, append). Empty
	// means the policy is inferred from the default.
	Action string
}

// Annotations is the parsed form of a doc block.
type Annotations struct {
	Description string
	Entries     []AnnotationEntry
}

func (a *Annotations) Lookup(name string) (AnnotationEntry, bool) {
	if a == nil {
		return AnnotationEntry{}, false
	}
	for _, e := range a.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return AnnotationEntry{}, false
}
