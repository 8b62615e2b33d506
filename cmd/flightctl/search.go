package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	flighthttp "github.com/flight-search/flight-booking-system/internal/adapter/http"
	"github.com/flight-search/flight-booking-system/internal/app"
	"github.com/flight-search/flight-booking-system/internal/config"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/usecase"
)

type searchOptions struct {
	from, to       string
	depart, ret    string
	adults         int
	children       int
	currency       string
	sortBy         string
	minPrice       string
	maxPrice       string
	departureTimes []string
	stops          []string
	carriers       []string
	selections     []string
	fixture        string
	baseURL        string
	jsonOut        bool
	timeout        time.Duration
}

var searchOpts searchOptions

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search flights and print the results view",
	Long: `Runs a search, applies filters and sort, then walks the selection flow
with each --select id in turn (departure first, then return).

Example:
  flightctl search --from JFK --to LHR --depart 2024-06-01 --return 2024-06-08 \
    --stops Nonstop --sort price-asc --select 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), cmd.OutOrStdout(), cfg, searchOpts)
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchOpts.from, "from", "", "Origin airport code")
	f.StringVar(&searchOpts.to, "to", "", "Destination airport code")
	f.StringVar(&searchOpts.depart, "depart", "", "Departure date (YYYY-MM-DD)")
	f.StringVar(&searchOpts.ret, "return", "", "Return date (YYYY-MM-DD), empty for one way")
	f.IntVar(&searchOpts.adults, "adults", 1, "Adult passengers")
	f.IntVar(&searchOpts.children, "children", 0, "Child passengers")
	f.StringVar(&searchOpts.currency, "currency", "", "Currency code")
	f.StringVar(&searchOpts.sortBy, "sort", "best", "Sort key: best, price-asc, price-desc, duration-asc, departure-asc")
	f.StringVar(&searchOpts.minPrice, "min-price", "", "Lower price bound")
	f.StringVar(&searchOpts.maxPrice, "max-price", "", "Upper price bound")
	f.StringSliceVar(&searchOpts.departureTimes, "departure-time", nil, "Departure buckets: Morning, Afternoon, Evening")
	f.StringSliceVar(&searchOpts.stops, "stops", nil, "Stop labels: Nonstop, \"1 Stop\", \"2+ Stops\"")
	f.StringSliceVar(&searchOpts.carriers, "carrier", nil, "Carrier codes")
	f.StringArrayVar(&searchOpts.selections, "select", nil, "Itinerary id to select, repeatable")
	f.StringVar(&searchOpts.fixture, "fixture", "", "Search this fixture file instead of the configured source")
	f.StringVar(&searchOpts.baseURL, "base-url", "", "Search this API base URL instead of the configured source")
	f.BoolVar(&searchOpts.jsonOut, "json", false, "Print the view as JSON")
	f.DurationVar(&searchOpts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	_ = searchCmd.MarkFlagRequired("from")
	_ = searchCmd.MarkFlagRequired("to")
	_ = searchCmd.MarkFlagRequired("depart")
	searchCmd.MarkFlagsMutuallyExclusive("fixture", "base-url")
}

func runSearch(ctx context.Context, out io.Writer, base *config.Config, opts searchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	query := flighthttp.StartSearchRequest{
		From: opts.from, To: opts.to,
		DepartDate: opts.depart, ReturnDate: opts.ret,
		Adults: opts.adults, Children: opts.children,
		CurrencyCode: opts.currency,
	}
	if err := query.Validate(); err != nil {
		return err
	}
	sortReq := flighthttp.SortRequest{SortBy: opts.sortBy}
	if err := sortReq.Validate(); err != nil {
		return err
	}
	filters := flighthttp.FiltersRequest{
		DepartureTimes: opts.departureTimes,
		Stops:          opts.stops,
		Carriers:       opts.carriers,
	}
	if opts.minPrice != "" || opts.maxPrice != "" {
		filters.PriceRange = &flighthttp.PriceRangeRequest{Min: opts.minPrice, Max: opts.maxPrice}
	}
	if err := filters.Validate(); err != nil {
		return err
	}

	svc, err := app.New(ctx, sourceConfig(base, opts), logger.Global)
	if err != nil {
		return err
	}
	defer svc.Close()

	view, err := walk(ctx, svc.UseCase, flighthttp.ToDomainQuery(&query), flighthttp.ToDomainFilters(&filters), domain.ParseSortKey(sortReq.SortBy), opts.selections)
	if err != nil {
		return err
	}

	dto := flighthttp.ToResultsViewDTO(view)
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto)
	}
	return printView(out, dto)
}

// sourceConfig copies the loaded config with the flag overrides applied.
// The CLI always keeps sessions in memory.
func sourceConfig(base *config.Config, opts searchOptions) *config.Config {
	c := *base
	switch {
	case opts.fixture != "":
		c.SearchAPI.BaseURL = ""
		c.SearchAPI.FixturePath = opts.fixture
	case opts.baseURL != "":
		c.SearchAPI.BaseURL = opts.baseURL
	}
	c.Session.Store = config.StoreMemory
	return &c
}

func walk(ctx context.Context, uc usecase.ResultsUseCase, query domain.SearchQuery, filters domain.FilterState, sort domain.SortKey, selections []string) (usecase.ResultsView, error) {
	view, err := uc.StartSearch(ctx, query)
	if err != nil {
		return view, err
	}
	if view.SearchFailed {
		return view, fmt.Errorf("search failed, no results available")
	}
	if !filters.IsEmpty() {
		if view, err = uc.UpdateFilters(ctx, view.SessionID, filters); err != nil {
			return view, err
		}
	}
	if view, err = uc.UpdateSort(ctx, view.SessionID, sort); err != nil {
		return view, err
	}
	for _, id := range selections {
		if view, err = uc.Select(ctx, view.SessionID, id); err != nil {
			return view, fmt.Errorf("select %s: %w", id, err)
		}
	}
	return view, nil
}

func printView(out io.Writer, v *flighthttp.ResultsViewDTO) error {
	fmt.Fprintf(out, "%s -> %s  stage: %s  sort: %s  showing %d of %d\n",
		v.Query.From, v.Query.To, v.Stage, v.SortBy, v.MatchingResults, v.TotalResults)
	if v.PriceBounds != nil {
		fmt.Fprintf(out, "price range: %s - %s\n", v.PriceBounds.FormattedMin, v.PriceBounds.FormattedMax)
	}

	if v.Departure != nil {
		fmt.Fprintf(out, "departure: #%s %s\n", v.Departure.ID, v.Departure.FormattedPrice)
	}
	if v.Return != nil {
		fmt.Fprintf(out, "return: #%s %s\n", v.Return.ID, v.Return.FormattedPrice)
	}
	if v.Combined != nil {
		fmt.Fprintf(out, "ready to book: #%s %s\n", v.Combined.ID, v.Combined.FormattedPrice)
		return nil
	}

	candidates, title := v.DepartureCandidates, "Departures"
	if v.Departure != nil {
		candidates, title = v.ReturnCandidates, "Returns"
	}
	fmt.Fprintf(out, "\n%s\n", title)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRICE\tSTOPS\tDURATION\tDEPARTS\tCARRIERS")
	for _, it := range candidates {
		departs := ""
		if t, ok := domain.ParseLocalDateTime(it.DepartsAt); ok {
			departs = t.Format("Mon 02 Jan 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dh%02dm\t%s\t%s\n",
			it.ID, it.FormattedPrice, it.StopLabel,
			it.DurationMinutes/60, it.DurationMinutes%60, departs, strings.Join(it.Carriers(), ","))
	}
	return w.Flush()
}
