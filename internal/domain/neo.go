// Package domain holds the NEO data model and the normalization logic that
// turns raw browse-endpoint records into flat export rows.
package domain

// RawRecord is one near-Earth-object entry as decoded from the browse
// endpoint, kept untyped because records vary in which nested fields they
// carry. Fields the export does not use are simply never looked up.
type RawRecord map[string]any

// BrowsePage is one bounded batch of records returned by a single paginated
// API call. An empty Records slice signals the end of pagination.
type BrowsePage struct {
	Page    int
	Records []RawRecord
}

// BrowseResult is the outcome of walking the browse endpoint to exhaustion.
// Truncated distinguishes "a page failed after retries" from a clean
// end-of-data; records fetched before the failure are kept either way.
type BrowseResult struct {
	Records   []RawRecord
	Pages     int
	Truncated bool
	FetchErr  error
}

// Row is the flat export record. Numeric fields are nil when the source
// value was absent or unparsable; missing is distinct from zero.
// The JSON tags are the stable downstream column contract and match the
// CSV header exactly.
type Row struct {
	AsteroidID        string   `json:"id_asteroide"`
	Name              string   `json:"nombre"`
	AbsoluteMagnitude *float64 `json:"magnitud_absoluta"`
	DiameterMinKM     *float64 `json:"diametro_min_km"`
	DiameterMaxKM     *float64 `json:"diametro_max_km"`
	Hazardous         bool     `json:"es_peligroso"`
	OrbitID           string   `json:"id_orbita"`
	SemiMajorAxisAU   *float64 `json:"semi_eje_mayor"`
	Eccentricity      *float64 `json:"excentricidad"`
	DiameterAvgKM     *float64 `json:"diametro_promedio_km"`
}

// Dataset is an ordered sequence of rows; order follows the API return order.
type Dataset []Row

// RunStatus is a point-in-time snapshot of an export run, served by the
// status endpoint while the process is alive.
type RunStatus struct {
	State      string `json:"state"` // "idle", "running", or "complete"
	Pages      int    `json:"pages"`
	Rows       int    `json:"rows"`
	Hazardous  int    `json:"hazardous"`
	Truncated  bool   `json:"truncated"`
	CSVPath    string `json:"csv_path,omitempty"`
	ReportPath string `json:"report_path,omitempty"`
}

// HazardousCount returns the number of rows flagged potentially hazardous.
func (d Dataset) HazardousCount() int {
	n := 0
	for _, r := range d {
		if r.Hazardous {
			n++
		}
	}
	return n
}

// NumericColumn pairs an export column name with its row accessor.
type NumericColumn struct {
	Name  string
	Value func(Row) *float64
}

// NumericColumns lists the numeric export columns in output order, used to
// build the per-column statistics in the summary report.
var NumericColumns = []NumericColumn{
	{"magnitud_absoluta", func(r Row) *float64 { return r.AbsoluteMagnitude }},
	{"diametro_min_km", func(r Row) *float64 { return r.DiameterMinKM }},
	{"diametro_max_km", func(r Row) *float64 { return r.DiameterMaxKM }},
	{"semi_eje_mayor", func(r Row) *float64 { return r.SemiMajorAxisAU }},
	{"excentricidad", func(r Row) *float64 { return r.Eccentricity }},
	{"diametro_promedio_km", func(r Row) *float64 { return r.DiameterAvgKM }},
}

// Column collects the non-missing values of one numeric column in row order.
func (d Dataset) Column(col NumericColumn) []float64 {
	values := make([]float64, 0, len(d))
	for _, r := range d {
		if v := col.Value(r); v != nil {
			values = append(values, *v)
		}
	}
	return values
}
