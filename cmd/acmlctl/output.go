package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// printTable writes rows in aligned columns on stdout.
func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// statusLabel maps the platform's status codes to the French labels the
// console displays. Unknown codes pass through unchanged.
func statusLabel(code string) string {
	labels := map[string]string{
		"PENDING":   "En attente",
		"ACTIVE":    "Actif",
		"INACTIVE":  "Inactif",
		"DRAFT":     "Brouillon",
		"OPEN":      "Ouvert",
		"CLOSED":    "Fermé",
		"COMPLETED": "Terminé",
		"CANCELLED": "Annulé",
		"PUBLISHED": "Publié",
		"EXPIRED":   "Expiré",
		"FAILED":    "Échoué",
		"REFUNDED":  "Remboursé",
		"APPROVED":  "Approuvé",
		"REJECTED":  "Refusé",
		"PAID":      "Payé",
		"PARTIAL":   "Partiel",
		"UNPAID":    "Impayé",
		"EXEMPT":    "Exempté",
	}
	if label, ok := labels[code]; ok {
		return label
	}
	return code
}

// shortID truncates a UUID for table display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
