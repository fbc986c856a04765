package gfa

import (
	"strconv"

	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
)

// resolvePathMetadata implements spec §4.6 pass 4's three metadata rules.
// fileHasWalks reports whether the source file contains any W-line at all,
// which forces every P-line into a reference path regardless of regex
// configuration (spec §4.6 pass 4, second bullet).
func resolvePathMetadata(name string, fileHasWalks bool, cpn *compiledPathName) pathindex.Metadata {
	if fileHasWalks || cpn == nil {
		return pathindex.Metadata{Sense: pathindex.SenseReference, Sample: pathindex.ReferencePathSampleName, Contig: name}
	}
	md := pathindex.Metadata{Sense: pathindex.SenseGeneric, Contig: name}
	loc := cpn.re.FindStringSubmatchIndex(name)
	if loc == nil {
		return md
	}
	for i := 0; i < len(cpn.fields); i++ {
		field := cpn.fields[i]
		group := i + 1
		if 2*group+1 >= len(loc) {
			continue
		}
		start, end := loc[2*group], loc[2*group+1]
		if start < 0 {
			// Missing submatch: field left at its zero value.
			continue
		}
		value := name[start:end]
		switch field {
		case 'S':
			md.Sample = value
		case 'C':
			md.Contig = value
		case 'H':
			if n, err := strconv.ParseUint(value, 10, 32); err == nil {
				md.Haplotype = uint32(n)
			}
		case 'F':
			if n, err := strconv.ParseUint(value, 10, 32); err == nil {
				md.Fragment = uint32(n)
			}
		}
	}
	if md.Sample == pathindex.ReferencePathSampleName {
		md.Sense = pathindex.SenseReference
	}
	return md
}

// walkMetadata builds the metadata for a W-line (spec §4.6 pass 4, first
// bullet): fields come directly from the W-line columns.
func walkMetadata(w walkRecord) pathindex.Metadata {
	md := pathindex.Metadata{
		Sense:     pathindex.SenseHaplotype,
		Sample:    w.sample,
		Contig:    w.contig,
		Haplotype: uint32(w.hapID),
	}
	if w.start != 0 || w.end != 0 {
		md.HasSubrangeFlag = true
		md.SubrangeStart = uint64(w.start)
		md.SubrangeEnd = uint64(w.end)
	}
	return md
}
