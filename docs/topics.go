// Package docs embeds the documentation topics of trc.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index returns the readme: an introduction and the list of topics.
func Index() string {
	content, _ := docs.ReadFile("readme.md")
	return string(content)
}

// GetTopic returns the content of a documentation topic. "*" returns all the
// topics.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		return GetTopics(topic)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of multiple documentation topics concatenated together.
func GetTopics(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		names := []string{topic}
		if topic == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			names = all
		}
		for _, name := range names {
			content, err := GetTopic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns a sorted list of all available documentation topics.
func GetAllTopics() ([]string, error) {
	var topics []string
	err := fs.WalkDir(docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if base == "readme" {
			return nil
		}
		topics = append(topics, base)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(topics)
	return topics, nil
}

var topicLine = regexp.MustCompile(`^\*\s+([^:]+):\s*(.*)$`)

// Descriptions returns the one line description of each topic listed in the readme.
func Descriptions() map[string]string {
	desc := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(Index()))
	for scanner.Scan() {
		if m := topicLine.FindStringSubmatch(scanner.Text()); m != nil {
			desc[strings.TrimSpace(m[1])] = m[2]
		}
	}
	return desc
}
