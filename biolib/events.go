package biolib

import (
	"fmt"

	"github.com/tidegate/protoplan/ir"
)

// Event pairs a ground metadata atom with the recorded data value that
// accompanies it, mirroring the metadata/data split: the atom is what the
// rule engine reasons over, the data is what the output program loads.
type Event struct {
	Metadata ir.Atom
	Data     string
}

// InfectEvent records an infection at time t under condition c, from the
// named sgRNA library file.
func InfectEvent(t, c ir.Term, library string) (Event, error) {
	m, err := ir.NewAtom(Infect, map[string]ir.Term{"t": t, "c": c})
	if err != nil {
		return Event{}, err
	}
	return Event{Metadata: m, Data: fmt.Sprintf("Infect_D(library=%q)", library)}, nil
}

// SeqEvent records a sequencing round at time t under condition c, from the
// named FASTQ file.
func SeqEvent(t, c ir.Term, fastqPath string) (Event, error) {
	m, err := ir.NewAtom(Seq, map[string]ir.Term{"t": t, "c": c})
	if err != nil {
		return Event{}, err
	}
	return Event{Metadata: m, Data: fmt.Sprintf("Seq_D(path=%q)", fastqPath)}, nil
}

// CountEvent records that n Infect events share time t and condition c. It
// backs the uniqueness-checking rule; n is computed by the caller from its
// own event trace.
func CountEvent(t, c ir.Term, n int) (Event, error) {
	m, err := ir.NewAtom(InfectCount, map[string]ir.Term{"t": t, "c": c, "n": Count(n)})
	if err != nil {
		return Event{}, err
	}
	return Event{Metadata: m, Data: fmt.Sprintf("InfectCount_D(n=%d)", n)}, nil
}

// PopulationEvent records the standing existence of a cell population, kept
// independent of any particular Infect event.
func PopulationEvent(p ir.Term) (Event, error) {
	m, err := ir.NewAtom(Population, map[string]ir.Term{"p": p})
	if err != nil {
		return Event{}, err
	}
	return Event{Metadata: m, Data: "Population_D()"}, nil
}
