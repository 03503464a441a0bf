package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amirasaad/walletledger/infra/initializer"
	"github.com/amirasaad/walletledger/pkg/app"
	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/money"
	ledgersvc "github.com/amirasaad/walletledger/pkg/service/ledger"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const usage = `Usage: ledgerctl <command> [arguments]
Commands:
  balance <user_id>
  credit  <user_id> <amount> [currency]
  debit   <user_id> <amount>
  verify  <user_id>
  pending [older_than_minutes]
  sweep`

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	bad  = color.New(color.FgRed, color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, bad("Error:"), err, warnCode(err))
		os.Exit(1)
	}
}

func warnCode(err error) string {
	return warn("[" + ledger.ReasonCode(err) + "]")
}

func run(cmd string, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	a := app.New(deps, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cmd {
	case "balance":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		w, err := a.WalletService.GetBalance(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Printf("Wallet %s (%s): %s\n", w.ID, w.Status, ok(w.Balance.String()))
	case "credit", "debit":
		return move(ctx, a, cmd, args)
	case "verify":
		userID, err := userArg(args)
		if err != nil {
			return err
		}
		w, err := a.WalletService.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		rec, err := a.LedgerService.VerifyConsistency(ctx, w.ID)
		if err != nil {
			return err
		}
		state := ok("consistent")
		if !rec.Consistent {
			state = bad("MISMATCH")
		}
		fmt.Printf("Wallet %s: %s balance=%s ledger=%s difference=%s pending=%d\n",
			rec.WalletID, state, rec.Balance, rec.LedgerBalance, rec.Difference, rec.PendingCount)
	case "pending":
		minutes := 0
		if len(args) > 0 {
			if minutes, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
		}
		txs, err := a.LedgerService.GetPendingTransactions(ctx, time.Duration(minutes)*time.Minute)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			fmt.Printf("%s %s %s %s since %s\n", warn(tx.Status), tx.ID, tx.Type, tx.Amount, tx.CreatedAt.Format(time.RFC3339))
		}
		fmt.Printf("%d pending\n", len(txs))
	case "sweep":
		report, err := a.LedgerService.SweepPending(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Scanned %d, failed out %s, skipped %d, errors %d\n",
			report.Scanned, warn(report.FailedOut), report.Skipped, report.Errors)
	default:
		fmt.Println("Unknown command:", cmd)
		fmt.Println(usage)
	}
	return nil
}

func move(ctx context.Context, a *app.App, cmd string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: %s <user_id> <amount>", cmd)
	}
	userID, err := userArg(args)
	if err != nil {
		return err
	}

	code := money.Code(a.Config.Ledger.DefaultCurrency)
	if w, err := a.WalletService.GetByUser(ctx, userID); err == nil {
		code = w.Currency()
	}
	if len(args) > 2 {
		if code, err = money.ParseCode(args[2]); err != nil {
			return err
		}
	}
	amount, err := money.Parse(args[1], code)
	if err != nil {
		return err
	}

	req := ledgersvc.MovementRequest{
		UserID:      userID,
		Amount:      amount,
		Description: "ledgerctl " + cmd,
		Actor:       ledger.ActorAdmin,
	}
	var res *ledgersvc.Result
	if cmd == "credit" {
		res, err = a.LedgerService.Credit(ctx, req)
	} else {
		res, err = a.LedgerService.Debit(ctx, req)
	}
	var rejected *ledgersvc.RejectedError
	if errors.As(err, &rejected) {
		fmt.Printf("Transaction %s %s\n", rejected.Transaction.ID, bad(rejected.Transaction.Status))
	}
	if err != nil {
		return err
	}
	fmt.Printf("Transaction %s %s. New balance: %s\n", res.Transaction.ID, ok(res.Transaction.Status), res.Wallet.Balance)
	return nil
}

func userArg(args []string) (uuid.UUID, error) {
	if len(args) < 1 {
		return uuid.Nil, errors.New("missing user_id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id %q: %w", args[0], err)
	}
	return id, nil
}
