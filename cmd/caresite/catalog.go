// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"caresite/internal/catalog"
	"caresite/internal/handlers"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalog content",
	}

	var active bool
	list := &cobra.Command{
		Use:       "list <name>",
		Short:     "List the items of a catalog in display order",
		Long:      "Catalogs: " + strings.Join(catalog.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := catalog.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown catalog %q (one of %s)", args[0], strings.Join(catalog.Names(), ", "))
			}

			pools, err := ctx.openPools()
			if err != nil {
				return err
			}
			defer pools.Close()

			rows, err := catalogRows(cmd.Context(), newManagers(pools, nil), def.Name, !active)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(catalogHeaders(def), rows, 0))
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", len(rows), def.Name)
			return nil
		},
	}
	list.Flags().BoolVar(&active, "active", false, "Only show items visible on the public site")
	cmd.AddCommand(list)

	return cmd
}

func catalogHeaders(def catalog.Definition) []string {
	headers := []string{"#", strings.ToUpper(def.NameLabel[:1]) + def.NameLabel[1:]}
	if def.Sluggable {
		headers = append(headers, "Slug")
	}
	return append(headers, "Visible", "ID")
}

// catalogRows lists the catalog called name as table rows.
func catalogRows(ctx context.Context, m *handlers.Managers, name string, includeInactive bool) ([][]string, error) {
	switch name {
	case catalog.Categories.Name:
		return itemRows(ctx, m.Categories, includeInactive)
	case catalog.Specialties.Name:
		return itemRows(ctx, m.Specialties, includeInactive)
	case catalog.Services.Name:
		return itemRows(ctx, m.Services, includeInactive)
	case catalog.Testimonials.Name:
		return itemRows(ctx, m.Testimonials, includeInactive)
	case catalog.Staff.Name:
		return itemRows(ctx, m.Staff, includeInactive)
	case catalog.Posts.Name:
		return itemRows(ctx, m.Posts, includeInactive)
	}
	return nil, fmt.Errorf("unknown catalog %q", name)
}

func itemRows[T catalog.Record, In catalog.Input](ctx context.Context, m *catalog.Manager[T, In], includeInactive bool) ([][]string, error) {
	items, err := m.ListAll(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	sluggable := m.Definition().Sluggable

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{strconv.Itoa(it.Position()), it.ItemName()}
		if sluggable {
			row = append(row, it.ItemSlug())
		}
		visible := "no"
		if it.Visible() {
			visible = "yes"
		}
		rows = append(rows, append(row, visible, it.ItemID().String()))
	}
	return rows, nil
}
