package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vietdv277/gatecert/internal/scan"
	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

// Report table column widths
var reportColumnWidths = []int{36, 24, 8, 10, 6, 10}

// Error table column widths
var errorColumnWidths = []int{36, 24, 60}

// Gateway table column widths
var gatewayColumnWidths = []int{24, 24, 24, 36, 8}

// PrintReport prints every checked host in a styled box table followed by
// the hosts that could not be checked
func PrintReport(w io.Writer, report *pkgtypes.Report) error {
	if len(report.Findings) > 0 {
		t := newTable([]string{"Host", "Gateway", "Provider", "Expires", "Days", "Status"}, reportColumnWidths)
		for _, f := range report.Findings {
			status := statusCell(f)
			t.addRow(
				cell{f.Host, HostStyle},
				cell{f.Gateway, GatewayStyle},
				cell{f.Provider, MutedStyle},
				cell{f.Expiration.Format(time.DateOnly), TextStyle},
				cell{strconv.Itoa(f.DaysLeft), status.style},
				status,
			)
		}
		if err := t.render(w); err != nil {
			return err
		}
	}

	if len(report.Errors) > 0 {
		t := newTable([]string{"Host", "Gateway", "Error"}, errorColumnWidths)
		for _, e := range report.Errors {
			t.addRow(
				cell{e.Host, HostStyle},
				cell{e.Gateway, GatewayStyle},
				cell{e.Err.Error(), ExpiredStyle},
			)
		}
		if err := t.render(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, summary(report))
	return err
}

func statusCell(f pkgtypes.Finding) cell {
	switch {
	case f.DaysLeft < 0:
		return cell{"✕ expired", ExpiredStyle}
	case f.NeedsRenewal:
		return cell{"● renew", RenewStyle}
	default:
		return cell{"● ok", OKStyle}
	}
}

func summary(report *pkgtypes.Report) string {
	parts := []string{fmt.Sprintf("%d hosts checked", len(report.Findings))}
	if n := len(report.Renewals); n > 0 {
		parts = append(parts, RenewStyle.Render(fmt.Sprintf("%d require renewal", n)))
	}
	if n := len(report.Errors); n > 0 {
		parts = append(parts, ExpiredStyle.Render(fmt.Sprintf("%d errors", n)))
	}
	return fmt.Sprintf("  %s (window %d days, gateways %d)",
		strings.Join(parts, ", "), int(report.Window.Hours()/24), report.Gateways)
}

// PrintRenewals prints the hostnames requiring renewal as a plain list
func PrintRenewals(w io.Writer, renewals []string) error {
	if len(renewals) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "hosts requiring renewal:"); err != nil {
		return err
	}
	for _, host := range renewals {
		if _, err := fmt.Fprintln(w, host); err != nil {
			return err
		}
	}
	return nil
}

// PrintGateways prints gateways with their renewal-eligible hostnames. A
// gateway without eligible listeners is listed once with an empty host.
func PrintGateways(w io.Writer, gateways []pkgtypes.Gateway) error {
	t := newTable([]string{"Gateway", "Scope", "Resource Group", "Host", "Listeners"}, gatewayColumnWidths)

	hosts := 0
	for _, gw := range gateways {
		eligible := scan.FilterListeners(gw.Listeners)
		hosts += len(eligible)
		total := fmt.Sprintf("%d/%d", len(eligible), len(gw.Listeners))

		if len(eligible) == 0 {
			t.addRow(
				cell{gw.Name, GatewayStyle},
				cell{formatOptional(gw.Scope), MutedStyle},
				cell{formatOptional(gw.ResourceGroup), MutedStyle},
				cell{"-", MutedStyle},
				cell{total, TextStyle},
			)
			continue
		}
		for i, l := range eligible {
			name, scope, group, count := gw.Name, formatOptional(gw.Scope), formatOptional(gw.ResourceGroup), total
			if i > 0 {
				name, scope, group, count = "", "", "", ""
			}
			t.addRow(
				cell{name, GatewayStyle},
				cell{scope, MutedStyle},
				cell{group, MutedStyle},
				cell{l.HostName, HostStyle},
				cell{count, TextStyle},
			)
		}
	}

	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  %d gateways, %d HTTPS hosts\n", len(gateways), hosts)
	return err
}

// PrintSubscriptions prints Azure subscriptions in a styled box table
func PrintSubscriptions(w io.Writer, subs []pkgtypes.Subscription) error {
	t := newTable([]string{"Subscription ID", "Name", "State"}, []int{36, 32, 10})
	for _, s := range subs {
		style := OKStyle
		if s.State != "Enabled" {
			style = MutedStyle
		}
		t.addRow(
			cell{s.ID, GatewayStyle},
			cell{s.DisplayName, HostStyle},
			cell{s.State, style},
		)
	}

	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  %d subscriptions\n", len(subs))
	return err
}
