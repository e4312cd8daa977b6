// ABOUTME: catalog-admin products subcommands
// ABOUTME: Paginated listing with search and status filters, get, create, partial update, and deletes

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/panel"
)

// cmdProducts handles products subcommands
func cmdProducts(e *env, args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdProductsList(e, args)
	case "get", "show":
		return cmdProductsGet(e, args)
	case "create", "add":
		return cmdProductsCreate(e, args)
	case "update", "edit":
		return cmdProductsUpdate(e, args)
	case "delete", "rm", "remove":
		return cmdProductsDelete(e, args)
	case "delete-all":
		return cmdProductsDeleteAll(e, args)
	default:
		return fmt.Errorf("unknown products subcommand: %s (use list, get, create, update, delete, delete-all)", subcmd)
	}
}

// statusFilter maps the CLI status names to the is_active query value.
func statusFilter(name string) (string, error) {
	switch name {
	case "", "all":
		return panel.StatusAll, nil
	case "active":
		return panel.StatusActive, nil
	case "inactive":
		return panel.StatusInactive, nil
	default:
		return "", fmt.Errorf("unknown status %q (use all, active, inactive)", name)
	}
}

// cmdProductsList lists one page of products
func cmdProductsList(e *env, args []string) error {
	fs := newFlags("products list")
	page := fs.IntP("page", "p", 1, "page number")
	perPage := fs.Int("per-page", e.cfg.Panel.PageSize, "products per page (1-100)")
	search := fs.StringP("search", "s", "", "match SKU, name, or description")
	status := fs.String("status", "all", "all, active, or inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	isActive, err := statusFilter(*status)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	resp, err := e.client.ListProducts(ctx, api.ProductQuery{
		Page:    *page,
		PerPage: *perPage,
		Search:  *search,
		Status:  isActive,
	})
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Products")
	cyan.Println("  --------")

	if len(resp.Products) == 0 {
		fmt.Println("  (no products)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tSKU\tNAME\tPRICE\tQTY\tSTATUS")
	fmt.Fprintln(w, "  --\t---\t----\t-----\t---\t------")

	for _, p := range resp.Products {
		fmt.Fprintf(w, "  %d\t%s\t%s\t$%.2f\t%d\t%s\n",
			p.ID, truncate(p.SKU, 20), truncate(p.Name, 32), p.Price, p.Quantity, activeLabel(p.IsActive))
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("  Page %d of %d (%d products)\n", resp.Page, max(resp.TotalPages, 1), resp.Total)
	fmt.Println()
	return nil
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// cmdProductsGet shows a single product
func cmdProductsGet(e *env, args []string) error {
	id, err := parseID(args, "products get <id>")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	p, err := e.client.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("getting product: %w", err)
	}

	printProduct(p)
	return nil
}

func printProduct(p *api.Product) {
	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Product %d\n", p.ID)
	cyan.Println("  ----------")
	fmt.Printf("  SKU:          %s\n", p.SKU)
	fmt.Printf("  Name:         %s\n", p.Name)
	fmt.Printf("  Description:  %s\n", p.Description)
	fmt.Printf("  Price:        $%.2f\n", p.Price)
	fmt.Printf("  Quantity:     %d\n", p.Quantity)
	fmt.Printf("  Status:       %s\n", activeLabel(p.IsActive))
	if p.UpdatedAt != nil && !p.UpdatedAt.IsZero() {
		fmt.Printf("  Updated:      %s\n", p.UpdatedAt.Local().Format("Jan 02 15:04"))
	}
	fmt.Println()
}

// cmdProductsCreate creates a new product
func cmdProductsCreate(e *env, args []string) error {
	fs := newFlags("products create")
	sku := fs.String("sku", "", "stock keeping unit (letters, digits, - and _)")
	name := fs.StringP("name", "n", "", "display name")
	description := fs.StringP("description", "d", "", "description")
	price := fs.Float64("price", -1, "unit price")
	quantity := fs.IntP("quantity", "q", 0, "stock on hand")
	inactive := fs.Bool("inactive", false, "create the product inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sku == "" || *name == "" || *price < 0 {
		return fmt.Errorf("usage: products create --sku <sku> --name <name> --price <price>")
	}

	in := api.ProductInput{
		SKU:         *sku,
		Name:        *name,
		Description: *description,
		Price:       *price,
		Quantity:    *quantity,
		IsActive:    !*inactive,
	}
	if err := in.Validate(); err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	p, err := e.client.CreateProduct(ctx, in)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Created product: %d\n", p.ID)
	fmt.Printf("  SKU:   %s\n", p.SKU)
	fmt.Printf("  Name:  %s\n", p.Name)
	return nil
}

// cmdProductsUpdate changes the fields given on the command line
func cmdProductsUpdate(e *env, args []string) error {
	fs := newFlags("products update")
	name := fs.StringP("name", "n", "", "display name")
	description := fs.StringP("description", "d", "", "description")
	price := fs.Float64("price", 0, "unit price")
	quantity := fs.IntP("quantity", "q", 0, "stock on hand")
	active := fs.Bool("active", true, "whether the product is active")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args(), "products update <id> [--name ..] [--price ..] [--quantity ..] [--active=false]")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	current, err := e.client.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("getting product: %w", err)
	}

	in := api.ProductInput{
		SKU:         current.SKU,
		Name:        current.Name,
		Description: current.Description,
		Price:       current.Price,
		Quantity:    current.Quantity,
		IsActive:    current.IsActive,
	}
	if fs.Changed("name") {
		in.Name = *name
	}
	if fs.Changed("description") {
		in.Description = *description
	}
	if fs.Changed("price") {
		in.Price = *price
	}
	if fs.Changed("quantity") {
		in.Quantity = *quantity
	}
	if fs.Changed("active") {
		in.IsActive = *active
	}

	p, err := e.client.UpdateProduct(ctx, id, in)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Updated product: %d\n", p.ID)
	printProduct(p)
	return nil
}

// cmdProductsDelete deletes a product
func cmdProductsDelete(e *env, args []string) error {
	id, err := parseID(args, "products delete <id>")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	if err := e.client.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted product: %d\n", id)
	return nil
}

// cmdProductsDeleteAll deletes every product
func cmdProductsDeleteAll(e *env, args []string) error {
	fs := newFlags("products delete-all")
	yes := fs.BoolP("yes", "y", false, "confirm deleting ALL products")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("refusing to delete ALL products without --yes (this cannot be undone)")
	}

	ctx, cancel := requestContext(e)
	defer cancel()

	res, err := e.client.DeleteAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("deleting products: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", res.Message)
	return nil
}
