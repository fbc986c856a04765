package gfa

import "regexp"

// BuildOptions configures the five-pass construction pipeline (spec §4.6).
type BuildOptions struct {
	// MaxNodeLength chops any segment longer than this into consecutive
	// pieces (spec §4.6 pass 1). Zero or negative disables chopping.
	MaxNodeLength int

	// ApproximateNumJobs is a hint for how many construction jobs to bin
	// components into (spec §4.6 pass 3, §5). <= 0 means 1.
	ApproximateNumJobs int

	// ParallelJobs bounds how many jobs run their insertion pass
	// concurrently (spec §5, "Concurrency model"). <= 0 means 1.
	ParallelJobs int

	// PathNameRegex and PathNameFields configure P-line-only metadata
	// parsing (spec §4.6 pass 4). PathNameFields assigns each parenthesized
	// submatch of PathNameRegex to one of 'S' (sample), 'C' (contig), 'H'
	// (haplotype), 'F' (fragment); each letter appears at most once. Both
	// empty disables regex parsing: every plain P-line is treated as a
	// reference path named by the P-line name. When the file also contains
	// W-lines, every P-line is a reference path whatever the regex (spec
	// §4.6 pass 4, second bullet).
	PathNameRegex  string
	PathNameFields string
}

// compiledPathName is the parsed, ready-to-use form of PathNameRegex/Fields.
type compiledPathName struct {
	re     *regexp.Regexp
	fields string
}

func (o BuildOptions) compilePathName() (*compiledPathName, error) {
	if o.PathNameRegex == "" {
		return nil, nil
	}
	re, err := regexp.Compile(o.PathNameRegex)
	if err != nil {
		return nil, err
	}
	return &compiledPathName{re: re, fields: o.PathNameFields}, nil
}
