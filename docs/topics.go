// Package docs holds the user documentation of the ledger syntax and
// computations, organized in topics.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var docs embed.FS

// Readme is the topic introducing the others, it is not listed by GetAllTopics.
const Readme = "readme"

// GetTopic returns the markdown content of a documentation topic. The topic
// "*" is every topic but the readme.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		topics, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(topics...)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of the topics, one after the other.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics returns the available topics, sorted, without the readme.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, f := range files {
		if topic := strings.TrimSuffix(f, ".md"); topic != Readme {
			topics = append(topics, topic)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

// Info strings of the code blocks that Examples extracts.
const (
	LedgerBlock   = "ledger"   // a ledger source
	BalancesBlock = "balances" // "id balance" lines, balances of the previous ledger block
)

// Example is a ledger source shown in a topic, with the balances the topic
// claims it computes to.
type Example struct {
	Topic    string
	Line     int // of the opening fence
	Ledger   string
	Balances map[string]string // by account id, with two decimals
}

// Examples returns the ledger examples of a topic, in order.
func Examples(topic string) ([]Example, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return nil, fmt.Errorf("topic %q not found: %w", topic, err)
	}

	var examples []Example
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		line := bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			body.Write(seg.Value(content))
		}

		switch string(fcb.Language(content)) {
		case LedgerBlock:
			examples = append(examples, Example{Topic: topic, Line: line, Ledger: body.String()})
		case BalancesBlock:
			if len(examples) == 0 {
				return ast.WalkStop, fmt.Errorf("%s.md:%d: balances without a ledger", topic, line)
			}
			balances := make(map[string]string)
			for _, l := range strings.Split(strings.TrimSpace(body.String()), "\n") {
				fields := strings.Fields(l)
				if len(fields) != 2 {
					return ast.WalkStop, fmt.Errorf("%s.md:%d: invalid balance line %q", topic, line, l)
				}
				balances[fields[0]] = fields[1]
			}
			examples[len(examples)-1].Balances = balances
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return examples, nil
}
