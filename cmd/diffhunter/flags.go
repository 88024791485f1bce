package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const (
	modeClassify = "classify"
	modeCompare  = "compare"
)

type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ",")
}

func (p *patternList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

type AppFlags struct {
	GlobalConfigFile string
	CapturesFile     string
	Mode             string
	TargetID         int
	CompareID        int
	CharacterLevel   bool
	HexMode          bool
	RequestRules     []string
	ResponseRules    []string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	capturesFile := flag.String("captures", "", "Path to a YAML/JSON file listing captured exchanges.")
	capturesFileAlias := flag.String("f", "", "Alias for -captures")

	targetID := flag.Int("target", 0, "ID of the exchange every other exchange is compared with. Defaults to the first one.")
	targetIDAlias := flag.Int("t", 0, "Alias for -target")

	compareID := flag.Int("compare", 0, "ID of the exchange to diff against the target in compare mode.")
	compareIDAlias := flag.Int("s", 0, "Alias for -compare")

	modeFlag := flag.String("mode", modeClassify, "Mode to run the tool: classify or compare")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	characterLevel := flag.Bool("char", false, "Highlight changes inside modified lines (overrides config file if set)")
	hexMode := flag.Bool("hex", false, "Diff hex dumps instead of text (overrides config file if set)")

	var requestRules, responseRules patternList
	flag.Var(&requestRules, "xreq", "Request-side exclusion pattern for the target (repeatable)")
	flag.Var(&responseRules, "xresp", "Response-side exclusion pattern for the target (repeatable)")

	flag.Parse()

	flags := AppFlags{
		CharacterLevel: *characterLevel,
		HexMode:        *hexMode,
		RequestRules:   requestRules,
		ResponseRules:  responseRules,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *capturesFile != "" {
		flags.CapturesFile = *capturesFile
	} else if *capturesFileAlias != "" {
		flags.CapturesFile = *capturesFileAlias
	}

	if *targetID != 0 {
		flags.TargetID = *targetID
	} else {
		flags.TargetID = *targetIDAlias
	}

	if *compareID != 0 {
		flags.CompareID = *compareID
	} else {
		flags.CompareID = *compareIDAlias
	}

	flags.Mode = *modeFlag
	if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	if flags.CapturesFile == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --captures argument is required")
		os.Exit(1)
	}
	if flags.Mode != modeClassify && flags.Mode != modeCompare {
		fmt.Fprintf(os.Stderr, "[FATAL] unknown --mode %q (classify or compare)\n", flags.Mode)
		os.Exit(1)
	}
	if flags.Mode == modeCompare && flags.CompareID == 0 {
		fmt.Fprintln(os.Stderr, "[FATAL] --compare argument is required in compare mode")
		os.Exit(1)
	}

	return flags
}
