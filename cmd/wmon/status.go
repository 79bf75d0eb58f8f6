package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	writemonitor "github.com/uttarayan21/write-monitor"
	"github.com/uttarayan21/write-monitor/cmd/wmon/internal"
	"github.com/uttarayan21/write-monitor/http"
	"github.com/uttarayan21/write-monitor/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the transfers of a running wmon copy",
	Run:   statusF,
}

// StatusFlags are the flags of the status command.
type StatusFlags struct {
	id   string
	name string
}

var statusFlags StatusFlags

func init() {
	statusCmd.Flags().StringVarP(&statusFlags.id, "id", "i", "", "transfer ID")
	statusCmd.Flags().StringVarP(&statusFlags.name, "name", "n", "", "transfer name")
}

func statusF(cmd *cobra.Command, args []string) {
	s := &http.TransferService{
		Addr: viper.GetString("host"),
	}

	if err := printStatus(context.Background(), os.Stdout, s, statusFlags); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func printStatus(ctx context.Context, out io.Writer, s writemonitor.TransferService, f StatusFlags) error {
	var transfers []*writemonitor.Transfer
	if f.id != "" {
		t, err := s.FindTransferByID(ctx, f.id)
		if err != nil {
			return err
		}
		transfers = append(transfers, t)
	} else {
		filter := writemonitor.TransferFilter{}
		if f.name != "" {
			filter.Name = &f.name
		}
		ts, _, err := s.FindTransfers(ctx, filter)
		if err != nil {
			return err
		}
		transfers = ts
	}

	w := internal.NewTabWriter(out)
	w.WriteHeaders(
		"ID",
		"Name",
		"Written",
		"Total",
		"Percent",
		"State",
		"Elapsed",
	)
	for _, t := range transfers {
		total, percent := "unknown", "-"
		if t.Total > 0 {
			total = humanize.Bytes(t.Total)
			percent = fmt.Sprintf("%d%%", progress.Percent(t.BytesWritten, t.Total))
		}
		state := "writing"
		if t.Done() {
			state = "done"
		}
		w.Write(map[string]interface{}{
			"ID":      t.ID,
			"Name":    t.Name,
			"Written": humanize.Bytes(t.BytesWritten),
			"Total":   total,
			"Percent": percent,
			"State":   state,
			"Elapsed": time.Since(t.Started).Round(time.Second),
		})
	}
	w.Flush()
	return nil
}
