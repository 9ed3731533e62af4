package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/quantdesk/config"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query trade records from the SQLite or MySQL journal.

Subcommands:
  list   - List trades, optionally for one day
  trade  - Get details of a specific trade by ID

Examples:
  quantdesk journal list
  quantdesk journal list --day 2024-01-15
  quantdesk journal trade <trade-id>`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var (
	journalDBPath string
	journalDay    string
	journalOrg    bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default: from settings)")
	journalListCmd.Flags().StringVar(&journalDay, "day", "", "only trades on this day (YYYY-MM-DD, local time)")
	journalListCmd.Flags().BoolVar(&journalOrg, "org", false, "print org-mode entries instead of one line per trade")
}

// tradeQuerier is implemented by the SQL journals.
type tradeQuerier interface {
	GetTrade(tradeID string) (journal.TradeRecord, error)
	ListTrades() ([]journal.TradeRecord, error)
	ListTradesBetween(start, end time.Time) ([]journal.TradeRecord, error)
	Close() error
}

func openJournalDB() (tradeQuerier, error) {
	if journalDBPath != "" {
		return openSQLite(journalDBPath)
	}
	s, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	switch s.Journal.Type {
	case "sqlite":
		return openSQLite(s.Journal.DBPath)
	case "mysql":
		j, err := journal.NewMySQL(s.Journal.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}
	return nil, errors.New("journal queries need a sqlite or mysql journal, pass --db")
}

func openSQLite(path string) (tradeQuerier, error) {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	var recs []journal.TradeRecord
	if journalDay != "" {
		start, end, err := dayBounds(time.Local, journalDay)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		recs, err = j.ListTradesBetween(start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
	} else if recs, err = j.ListTrades(); err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if journalOrg {
		fmt.Println(journal.FormatTradesOrg(recs))
		return nil
	}
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		fmt.Printf("%s  %s  %-6s %s\n", r.Time.Local().Format("2006-01-02 15:04:05"), r.ID, r.Account, journal.FormatTradeLine(r))
	}
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
