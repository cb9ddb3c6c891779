package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for interactive exploration.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse URL",
		Short: "Explore an API interactively in the terminal",
		Long: `Explore an API interactively in the terminal.

The current resource's links and embedded items are listed; enter
follows the selection, backspace returns to the previous resource.
Templated links cannot be followed interactively, use 'get --var'
for those.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, rawURL string, noCache bool) error {
	startURL, err := c.resolveURL(rawURL)
	if err != nil {
		return err
	}
	resolver, err := c.newResolver(noCache)
	if err != nil {
		return err
	}

	base, err := url.Parse(startURL)
	if err != nil || !base.IsAbs() {
		return fmt.Errorf("browse needs an absolute URL, got %q", rawURL)
	}

	rep, err := traverson.New(resolver).StartWith(startURL).Representation(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", startURL, err)
	}

	model := newBrowseModel(ctx, resolver, base, rep)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// browseEntry is one selectable row: either a link to follow or an
// embedded item to descend into.
type browseEntry struct {
	rel      string
	link     hal.Link
	embedded *hal.Representation
}

func (e browseEntry) isEmbedded() bool { return e.embedded != nil }

// browsePage is one visited resource, kept on the history stack.
type browsePage struct {
	base *url.URL
	rep  hal.Representation
}

// BrowseModel is the bubbletea model for interactive API exploration.
type BrowseModel struct {
	ctx      context.Context
	resolver traverson.LinkResolver

	page    browsePage
	entries []browseEntry
	history []browsePage

	cursor  int
	offset  int
	height  int
	loading bool
	status  string
}

type browseFetchedMsg struct {
	page browsePage
}

type browseErrMsg struct {
	err error
}

func newBrowseModel(ctx context.Context, resolver traverson.LinkResolver, base *url.URL, rep hal.Representation) BrowseModel {
	page := browsePage{base: base, rep: rep}
	return BrowseModel{
		ctx:      ctx,
		resolver: resolver,
		page:     page,
		entries:  browseEntries(rep),
		height:   15,
	}
}

// browseEntries lists the followable rows of a resource: every link
// except self and curies, then every embedded item.
func browseEntries(rep hal.Representation) []browseEntry {
	var entries []browseEntry
	for _, rel := range rep.Links().Rels() {
		if rel == hal.RelSelf || rel == hal.RelCuries {
			continue
		}
		for _, link := range rep.Links().LinksBy(rel) {
			entries = append(entries, browseEntry{rel: rel, link: link})
		}
	}
	for _, rel := range rep.Embedded().Rels() {
		for _, item := range rep.Embedded().ItemsBy(rel) {
			entries = append(entries, browseEntry{rel: rel, embedded: &item})
		}
	}
	return entries
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case browseFetchedMsg:
		m.history = append(m.history, m.page)
		m.setPage(msg.page)
		return m, nil
	case browseErrMsg:
		m.loading = false
		m.status = msg.err.Error()
		return m, nil
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowseModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "backspace", "left", "h":
		if n := len(m.history); n > 0 {
			page := m.history[n-1]
			m.history = m.history[:n-1]
			m.setPage(page)
		}
	case "enter", "right", "l":
		return m.follow()
	}
	return m, nil
}

// follow descends into the selected entry: embedded items are entered
// directly, links are fetched asynchronously.
func (m BrowseModel) follow() (tea.Model, tea.Cmd) {
	if m.loading || m.cursor >= len(m.entries) {
		return m, nil
	}
	entry := m.entries[m.cursor]

	if entry.isEmbedded() {
		m.history = append(m.history, m.page)
		m.setPage(browsePage{base: m.page.base, rep: *entry.embedded})
		return m, nil
	}
	if entry.link.Templated() {
		m.status = fmt.Sprintf("%s is templated, follow it with: waypost get --follow %s --var key=value", entry.link.Href, entry.rel)
		return m, nil
	}

	ref, err := url.Parse(entry.link.Href)
	if err != nil {
		m.status = fmt.Sprintf("malformed href %q", entry.link.Href)
		return m, nil
	}
	target := m.page.base.ResolveReference(ref)

	m.loading = true
	m.status = ""
	ctx, resolver := m.ctx, m.resolver
	return m, func() tea.Msg {
		rep, err := traverson.New(resolver).StartWith(target.String()).Representation(ctx)
		if err != nil {
			return browseErrMsg{err: err}
		}
		return browseFetchedMsg{page: browsePage{base: target, rep: rep}}
	}
}

func (m *BrowseModel) setPage(page browsePage) {
	m.page = page
	m.entries = browseEntries(page.rep)
	m.cursor = 0
	m.offset = 0
	m.loading = false
	m.status = ""
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := m.page.base.String()
	if t, err := hal.AttributeAs[string](m.page.rep, "title"); err == nil && t != "" {
		title = t
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleLink.Render(m.page.base.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to follow here"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.entries))

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		kind := "link"
		target := entry.link.Href
		if entry.isEmbedded() {
			kind = "embedded"
			target = embeddedSummary(*entry.embedded)
		} else if entry.link.Templated() {
			kind = "template"
		}
		rows = append(rows, []string{cursor, entry.rel, kind, target})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Rel", "Kind", "Target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(listDimStyle.Render("  fetching..."))
	case m.status != "":
		b.WriteString(StyleWarning.Render("  " + m.status))
	default:
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  depth %d", m.cursor+1, len(m.entries), len(m.history))))
	}

	return b.String()
}
