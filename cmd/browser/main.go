// Command browser is an interactive terminal viewer for the MIME database.
// It shows the extension and content-type indices as filterable tables plus
// a summary page, against either the embedded datasets or an external pair
// from the config file.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"git.uuxo.net/uuxo/minimime"
	"git.uuxo.net/uuxo/minimime/internal/config"
	"git.uuxo.net/uuxo/minimime/internal/logging"
)

const version = "1.2.0"

const (
	pageExtensions = "extensions"
	pageTypes      = "types"
	pageStats      = "stats"
)

var log = logrus.New()

func main() {
	var configFile string
	var showVersion bool

	flag.StringVar(&configFile, "config", "", "Path to configuration file.")
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit.")
	flag.Parse()

	if showVersion {
		fmt.Printf("minimime browser v%s\n", version)
		os.Exit(0)
	}

	db, source := openDatabase(configFile)

	b := newBrowser(db, source)
	if err := b.run(); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}

// openDatabase returns the database and a short description of where it came
// from, for the stats page.
func openDatabase(configFile string) (*minimime.Database, string) {
	if configFile == "" {
		db, err := minimime.Default()
		if err != nil {
			log.Fatalf("Failed to load embedded datasets: %v", err)
		}
		return db, "embedded"
	}

	config.SetLogger(log)
	conf, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateConfig(conf); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	logging.Setup(log, conf.Logging)

	if !conf.UsesExternalDatasets() {
		db, err := minimime.Default()
		if err != nil {
			log.Fatalf("Failed to load embedded datasets: %v", err)
		}
		return db, "embedded"
	}

	extFile, err := os.Open(conf.Database.ExtensionFile)
	if err != nil {
		log.Fatalf("Failed to open extension dataset: %v", err)
	}
	defer extFile.Close()
	ctFile, err := os.Open(conf.Database.ContentTypeFile)
	if err != nil {
		log.Fatalf("Failed to open content-type dataset: %v", err)
	}
	defer ctFile.Close()

	db, err := minimime.NewDatabase(extFile, ctFile)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}
	return db, conf.Database.ExtensionFile + ", " + conf.Database.ContentTypeFile
}

type browser struct {
	app       *tview.Application
	pages     *tview.Pages
	filter    *tview.InputField
	extTable  *tview.Table
	typeTable *tview.Table

	extensions   []minimime.Info
	contentTypes []minimime.Info
	source       string
}

func newBrowser(db *minimime.Database, source string) *browser {
	b := &browser{
		app:          tview.NewApplication(),
		pages:        tview.NewPages(),
		extensions:   db.Extensions(),
		contentTypes: db.ContentTypes(),
		source:       source,
	}

	b.filter = tview.NewInputField().
		SetLabel(" Filter: ").
		SetFieldWidth(0)
	b.filter.SetChangedFunc(func(string) { b.render() })

	b.extTable = newRecordTable()
	b.typeTable = newRecordTable()

	b.pages.AddPage(pageExtensions, b.extTable, true, true)
	b.pages.AddPage(pageTypes, b.typeTable, true, false)
	b.pages.AddPage(pageStats, b.statsPage(), true, false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText(" [yellow]e[white] extensions  [yellow]t[white] types  [yellow]s[white] stats  [yellow]/[white] filter  [yellow]q[white] quit")

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.filter, 1, 0, false).
		AddItem(b.pages, 0, 1, true).
		AddItem(help, 1, 0, false)

	b.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if b.app.GetFocus() == b.filter {
			if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyEnter {
				b.app.SetFocus(b.pages)
				return nil
			}
			return event
		}
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q', 'Q':
				b.app.Stop()
				return nil
			case 'e', 'E':
				b.pages.SwitchToPage(pageExtensions)
			case 't', 'T':
				b.pages.SwitchToPage(pageTypes)
			case 's', 'S':
				b.pages.SwitchToPage(pageStats)
			case '/':
				b.app.SetFocus(b.filter)
				return nil
			}
		}
		return event
	})

	b.render()
	b.app.SetRoot(root, true).EnableMouse(true)
	return b
}

func (b *browser) run() error { return b.app.Run() }

func newRecordTable() *tview.Table {
	table := tview.NewTable().SetBorders(false)
	table.SetSelectable(true, false)
	table.SetFixed(1, 0)
	table.SetBorder(true)
	return table
}

// render refills both tables with the records matching the current filter.
func (b *browser) render() {
	needle := strings.ToLower(b.filter.GetText())

	shown := fillTable(b.extTable, b.extensions, needle, func(info minimime.Info) []string {
		return []string{info.Extension, info.ContentType, info.Encoding}
	}, []string{"Extension", "Content-Type", "Encoding", "Class"}, 1)
	b.extTable.SetTitle(fmt.Sprintf(" [::b]Extensions (%d/%d) ", shown, len(b.extensions)))

	shown = fillTable(b.typeTable, b.contentTypes, needle, func(info minimime.Info) []string {
		return []string{info.ContentType, info.Extension, info.Encoding}
	}, []string{"Content-Type", "Extension", "Encoding", "Class"}, 0)
	b.typeTable.SetTitle(fmt.Sprintf(" [::b]Content Types (%d/%d) ", shown, len(b.contentTypes)))
}

func fillTable(table *tview.Table, records []minimime.Info, needle string, columns func(minimime.Info) []string, headers []string, expandCol int) int {
	table.Clear()
	for col, header := range headers {
		table.SetCell(0, col, tview.NewTableCell(header).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	row := 1
	for _, info := range records {
		if needle != "" && !matches(info, needle) {
			continue
		}
		for col, text := range columns(info) {
			cell := tview.NewTableCell(text)
			if col == expandCol {
				cell.SetExpansion(1)
			}
			table.SetCell(row, col, cell)
		}

		classCell := tview.NewTableCell("text").SetTextColor(tcell.ColorGreen)
		if info.IsBinary() {
			classCell = tview.NewTableCell("binary").SetTextColor(tcell.ColorRed)
		}
		table.SetCell(row, len(headers)-1, classCell)
		row++
	}
	table.ScrollToBeginning()
	return row - 1
}

func matches(info minimime.Info, needle string) bool {
	return strings.Contains(strings.ToLower(info.Extension), needle) ||
		strings.Contains(strings.ToLower(info.ContentType), needle)
}

func (b *browser) statsPage() tview.Primitive {
	table := tview.NewTable().SetBorders(false)
	table.SetBorder(true).SetTitle(" [::b]Database ")

	binaryExts := 0
	families := make(map[string]int)
	for _, info := range b.extensions {
		if info.IsBinary() {
			binaryExts++
		}
		if i := strings.Index(info.ContentType, "/"); i > 0 {
			families[info.ContentType[:i]]++
		}
	}

	row := 0
	addRow := func(property, value string) {
		table.SetCell(row, 0, tview.NewTableCell(property))
		table.SetCell(row, 1, tview.NewTableCell(value))
		row++
	}

	table.SetCell(row, 0, tview.NewTableCell("Property").SetAttributes(tcell.AttrBold))
	table.SetCell(row, 1, tview.NewTableCell("Value").SetAttributes(tcell.AttrBold))
	row++

	addRow("Source", b.source)
	addRow("Extension records", humanize.Comma(int64(len(b.extensions))))
	addRow("Content-type records", humanize.Comma(int64(len(b.contentTypes))))
	addRow("Binary extensions", humanize.Comma(int64(binaryExts)))
	addRow("Text extensions", humanize.Comma(int64(len(b.extensions)-binaryExts)))

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if families[names[i]] != families[names[j]] {
			return families[names[i]] > families[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		addRow(name+"/*", humanize.Comma(int64(families[name])))
	}

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, false)
	return flex
}
