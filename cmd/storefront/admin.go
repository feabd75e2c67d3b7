package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/apiclient"
)

var adminCommands = map[string]command{
	"login":         cmdAdminLogin,
	"logout":        cmdAdminLogout,
	"status":        cmdAdminStatus,
	"me":            cmdAdminMe,
	"stats":         cmdAdminStats,
	"orders":        cmdAdminOrders,
	"order":         cmdAdminOrder,
	"order-update":  cmdAdminOrderUpdate,
	"order-delete":  cmdAdminOrderDelete,
	"upload-image":  cmdAdminUpload(storefront.FileTypeImages),
	"upload-video":  cmdAdminUpload(storefront.FileTypeVideos),
	"files":         cmdAdminFiles,
	"file-delete":   cmdAdminFileDelete,
	"product-media": cmdAdminProductMedia,
}

func cmdAdmin(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return usageError("admin requires a subcommand")
	}
	cmd, ok := adminCommands[args[0]]
	if !ok {
		return usageError("unknown admin command %q", args[0])
	}
	return cmd(ctx, a, args[1:])
}

func cmdAdminLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin login")
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from the first line of stdin")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *passwordStdin {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	if *username == "" || *password == "" {
		return usageError("admin login requires -username and a password")
	}
	if _, err := a.api.Login(ctx, storefront.AdminLogin{Username: *username, Password: *password}); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged in as", *username)
	return nil
}

func cmdAdminLogout(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlags(a, "admin logout"), args); err != nil {
		return err
	}
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func cmdAdminStatus(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlags(a, "admin status"), args); err != nil {
		return err
	}
	ok, err := a.api.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.stdout, "Not logged in")
		return nil
	}
	info, err := a.api.TokenInfo(ctx)
	if err != nil {
		// an unreadable token still counts as logged in; the backend decides
		fmt.Fprintln(a.stdout, "Logged in (token could not be decoded)")
		return nil
	}
	fmt.Fprintf(a.stdout, "Logged in as %s\n", info.Subject)
	if info.ExpiresAt != nil {
		state := "expires"
		if info.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.stdout, "  token %s %s\n", state, info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func cmdAdminMe(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlags(a, "admin me"), args); err != nil {
		return err
	}
	me, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(me)
	}
	fmt.Fprintf(a.stdout, "%s <%s>\n  active: %t\n  superuser: %t\n  since: %s\n",
		me.Username, me.Email, me.IsActive, me.IsSuperuser, me.CreatedAt)
	return nil
}

func cmdAdminStats(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(newFlags(a, "admin stats"), args); err != nil {
		return err
	}
	stats, err := a.api.DashboardStats(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(stats)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total orders\t%d\n", stats.TotalOrders)
	fmt.Fprintf(tw, "Pending\t%d\n", stats.PendingOrders)
	fmt.Fprintf(tw, "Confirmed\t%d\n", stats.ConfirmedOrders)
	fmt.Fprintf(tw, "Shipped\t%d\n", stats.ShippedOrders)
	fmt.Fprintf(tw, "Delivered\t%d\n", stats.DeliveredOrders)
	fmt.Fprintf(tw, "Cancelled\t%d\n", stats.CancelledOrders)
	fmt.Fprintf(tw, "Revenue\t%s\n", price(stats.TotalRevenue))
	fmt.Fprintf(tw, "Customers\t%d\n", stats.TotalCustomers)
	_ = tw.Flush()
	if len(stats.RecentOrders) > 0 {
		fmt.Fprintln(a.stdout, "\nRecent orders")
		printOrders(a.stdout, stats.RecentOrders)
	}
	return nil
}

func cmdAdminOrders(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin orders")
	skip := fs.Int("skip", 0, "orders to skip")
	limit := fs.Int("limit", 100, "maximum orders to return")
	status := fs.String("status", "", "only orders with this status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	orders, err := a.api.Orders(ctx, storefront.ListOrdersParams{
		Skip:   *skip,
		Limit:  *limit,
		Status: storefront.OrderStatus(*status),
	})
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(orders)
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.stdout, "No orders")
		return nil
	}
	printOrders(a.stdout, orders)
	return nil
}

func cmdAdminOrder(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin order")
	id := fs.Int64("id", 0, "order id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("admin order requires -id")
	}
	order, err := a.api.Order(ctx, *id)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(order)
	}
	printOrders(a.stdout, []storefront.Order{order})
	return nil
}

func cmdAdminOrderUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin order-update")
	id := fs.Int64("id", 0, "order id")
	status := fs.String("status", "", "new status (pending|confirmed|shipped|delivered|cancelled)")
	qty := fs.Int("qty", 0, "new quantity")
	requirements := fs.String("requirements", "", "new special requirements")
	delivery := fs.String("delivery", "", "new delivery address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("admin order-update requires -id")
	}

	var update storefront.OrderUpdate
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["status"] {
		st := storefront.OrderStatus(*status)
		if !st.Valid() {
			return usageError("invalid status %q", *status)
		}
		update.Status = &st
	}
	if set["qty"] {
		update.Quantity = qty
	}
	if set["requirements"] {
		update.SpecialRequirements = requirements
	}
	if set["delivery"] {
		update.DeliveryAddress = delivery
	}
	if len(set) <= 1 {
		return usageError("admin order-update needs at least one field to change")
	}

	order, err := a.api.UpdateOrder(ctx, *id, update)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(order)
	}
	fmt.Fprintln(a.stdout, "Order status updated successfully!")
	printOrders(a.stdout, []storefront.Order{order})
	return nil
}

func cmdAdminOrderDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin order-delete")
	id := fs.Int64("id", 0, "order id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("admin order-delete requires -id")
	}
	if _, err := a.api.DeleteOrder(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Order deleted successfully!")
	return nil
}

func cmdAdminUpload(kind storefront.FileType) command {
	return func(ctx context.Context, a *app, args []string) error {
		fs := newFlags(a, "admin upload")
		path := fs.String("file", "", "local file to upload")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		if *path == "" {
			return usageError("upload requires -file")
		}
		part, err := apiclient.FileFromPath(*path)
		if err != nil {
			return err
		}
		var res storefront.FileUploadResponse
		if kind == storefront.FileTypeVideos {
			res, err = a.api.UploadVideo(ctx, part)
		} else {
			res, err = a.api.UploadImage(ctx, part)
		}
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.writeJSON(res)
		}
		fmt.Fprintln(a.stdout, "File uploaded successfully!")
		fmt.Fprintf(a.stdout, "  %s\n  %s\n", res.Filename, res.URL)
		return nil
	}
}

func cmdAdminFiles(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin files")
	kind := fs.String("type", string(storefront.FileTypeImages), "images or videos")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	list, err := a.api.ListFiles(ctx, storefront.FileType(*kind))
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(list)
	}
	if len(list.Files) == 0 {
		fmt.Fprintf(a.stdout, "No %s uploaded\n", *kind)
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILENAME\tSIZE\tURL")
	for _, f := range list.Files {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", f.Filename, f.Size, f.URL)
	}
	return tw.Flush()
}

func cmdAdminFileDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin file-delete")
	kind := fs.String("type", "", "images or videos")
	name := fs.String("name", "", "stored filename")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *kind == "" || *name == "" {
		return usageError("admin file-delete requires -type and -name")
	}
	if _, err := a.api.DeleteFile(ctx, storefront.FileType(*kind), *name); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "File deleted successfully!")
	return nil
}

func cmdAdminProductMedia(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "admin product-media")
	id := fs.Int64("id", 0, "product id")
	images := fs.String("images", "", "comma separated image URLs")
	video := fs.String("video", "", "video URL")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("admin product-media requires -id")
	}
	var update storefront.ProductMediaUpdate
	for _, img := range strings.Split(*images, ",") {
		if img = strings.TrimSpace(img); img != "" {
			update.Images = append(update.Images, img)
		}
	}
	if *video != "" {
		update.VideoURL = video
	}
	if len(update.Images) == 0 && update.VideoURL == nil {
		return usageError("admin product-media needs -images or -video")
	}
	product, err := a.api.UpdateProductMedia(ctx, *id, update)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(product)
	}
	fmt.Fprintln(a.stdout, "Product media updated successfully!")
	printProduct(a.stdout, product)
	return nil
}
