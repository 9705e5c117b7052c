package view

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	baseLocale = language.MustParse("en-US")
	zhLocale   = language.MustParse("zh-CN")

	// supported lists the page locales; the first one is the base locale.
	supported = []language.Tag{baseLocale, zhLocale}
	matcher   = language.NewMatcher(supported)
)

var catalogs = map[language.Tag]map[string]string{
	baseLocale: {
		"page.title":          "Tasks",
		"page.heading":        "Task list",
		"form.placeholder":    "Add a new task...",
		"form.submit":         "Add",
		"item.toggle.done":    "Mark as done",
		"item.toggle.pending": "Mark as pending",
		"item.delete":         "Delete",
		"list.empty":          "No tasks yet. Enjoy your day!",
	},
	zhLocale: {
		"page.title":          "待办清单",
		"page.heading":        "待办清单",
		"form.placeholder":    "添加新任务...",
		"form.submit":         "添加",
		"item.toggle.done":    "标记为完成",
		"item.toggle.pending": "标记为未完成",
		"item.delete":         "删除",
		"list.empty":          "暂无任务，享受生活吧！🎉",
	},
}

// init loads the page catalogs into x/text/message.
func init() {
	for tag, messages := range catalogs {
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := message.SetString(tag, key, messages[key]); err != nil {
				panic(fmt.Sprintf("register %s message %q: %v", tag, key, err))
			}
		}
	}
}

// labels holds the localized page chrome.
type labels struct {
	Title       string
	Heading     string
	Placeholder string
	Submit      string
	MarkDone    string
	MarkPending string
	Delete      string
	Empty       string
}

func labelsFor(tag language.Tag) labels {
	p := message.NewPrinter(tag)
	return labels{
		Title:       p.Sprintf("page.title"),
		Heading:     p.Sprintf("page.heading"),
		Placeholder: p.Sprintf("form.placeholder"),
		Submit:      p.Sprintf("form.submit"),
		MarkDone:    p.Sprintf("item.toggle.done"),
		MarkPending: p.Sprintf("item.toggle.pending"),
		Delete:      p.Sprintf("item.delete"),
		Empty:       p.Sprintf("list.empty"),
	}
}

// MatchLocale maps a locale identifier to the closest supported page locale.
func MatchLocale(locale string) (language.Tag, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("unsupported locale %q", locale)
	}
	return supported[idx], nil
}
