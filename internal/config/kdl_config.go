package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .transpiler.kdl file in
// projectRoot. Returns (nil, nil) if no such file exists.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".transpiler.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .transpiler.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Source.Root != "" {
		var absRoot string
		if filepath.IsAbs(cfg.Source.Root) {
			absRoot = cfg.Source.Root
		} else {
			absRoot = filepath.Join(projectRoot, cfg.Source.Root)
		}
		cfg.Source.Root = filepath.Clean(absRoot)
	} else {
		if absRoot, err := filepath.Abs(projectRoot); err == nil {
			cfg.Source.Root = absRoot
		} else {
			cfg.Source.Root = projectRoot
		}
	}

	return cfg, nil
}

// parseKDL parses a .transpiler.kdl document into a Config, starting from
// defaultConfig so any section the file omits keeps its default value.
func parseKDL(content string) (*Config, error) {
	cfg := defaultConfig("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "source":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "root":
					assignSimpleString(cn, "root", func(v string) { cfg.Source.Root = v })
				case "include":
					if args := collectStringArgs(cn); len(args) > 0 {
						cfg.Source.Include = args
					}
				case "exclude":
					if args := collectStringArgs(cn); len(args) > 0 {
						cfg.Source.Exclude = args
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "units":
					assignSimpleString(cn, "units", func(v string) { cfg.Output.UnitsPath = v })
				case "build_order":
					assignSimpleString(cn, "build_order", func(v string) { cfg.Output.BuildOrderPath = v })
				case "cycle_analysis":
					assignSimpleString(cn, "cycle_analysis", func(v string) { cfg.Output.CycleAnalysisPath = v })
				case "blackboard":
					assignSimpleString(cn, "blackboard", func(v string) { cfg.Output.BlackboardPath = v })
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "parallel_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelWorkers = v
					}
				case "max_file_size":
					if s, ok := firstStringArg(cn); ok {
						size, err := parseSize(s)
						if err != nil {
							log.Printf("WARNING: invalid max_file_size %q in KDL config: %v", s, err)
						} else {
							cfg.Performance.MaxSourceFileBytes = size
						}
					}
				}
			}
		case "mapper":
			for _, cn := range n.Children {
				if nodeName(cn) == "super_node_warning_threshold" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Mapper.SuperNodeWarningThreshold = v
					}
				}
			}
		case "verify":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "command":
					if args := collectStringArgs(cn); len(args) > 0 {
						cfg.Verify.Command = args
					}
				case "timeout_multiplier":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Verify.TimeoutMultiplier = v
					}
				}
			}
		case "oracle":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Oracle.TimeoutSec = v
					}
				case "mock":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Oracle.Mock = b
					} else if s, ok := firstStringArg(cn); ok {
						cfg.Oracle.Mock = parseBool(s)
					}
				}
			}
		}
	}

	return cfg, nil
}

// nodeName returns a KDL node's tag name, or "" for a nil node.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

// collectStringArgs gathers string values from either a node's inline
// arguments or, for block format (e.g. exclude { "pattern" }), its children.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
