package analyzer

// PageStatus pairs a URL with its HTTP status code.
type PageStatus struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// PageCount pairs a URL with a per-page count (missing alts, words).
type PageCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// PageRatio pairs a URL with a percentage ratio.
type PageRatio struct {
	URL   string  `json:"url"`
	Ratio float64 `json:"ratio"`
}

// CanonicalRef records a page whose canonical points elsewhere.
type CanonicalRef struct {
	URL       string `json:"url"`
	Canonical string `json:"canonical"`
}

// HTTPMetrics summarizes status codes over the whole crawl.
type HTTPMetrics struct {
	Stats        map[int]int  `json:"stats"`
	Redirects    []PageStatus `json:"redirects"`
	BrokenLinks  []PageStatus `json:"broken_links"`
	ServerErrors []PageStatus `json:"server_errors"`
	Total        int          `json:"total"`
	ErrorRate4xx float64      `json:"error_rate_4xx"`
	ErrorRate5xx float64      `json:"error_rate_5xx"`
}

// HeadingMetrics summarizes H1 usage over scored pages.
type HeadingMetrics struct {
	NoH1        []string            `json:"no_h1"`
	MultipleH1  []string            `json:"multiple_h1"`
	DuplicateH1 map[string][]string `json:"duplicate_h1"`
	Total       int                 `json:"total"`
	MissingPct  float64             `json:"missing_pct"`
}

// TitleMetrics summarizes title tags over scored pages.
type TitleMetrics struct {
	NoTitle      []string            `json:"no_title"`
	Short        []string            `json:"short"`
	Long         []string            `json:"long"`
	Duplicates   map[string][]string `json:"duplicates"`
	Total        int                 `json:"total"`
	MissingPct   float64             `json:"missing_pct"`
	DuplicatePct float64             `json:"duplicate_pct"`
}

// MetaMetrics summarizes meta descriptions over scored pages.
type MetaMetrics struct {
	NoMeta     []string            `json:"no_meta"`
	Short      []string            `json:"short"`
	Long       []string            `json:"long"`
	Duplicates map[string][]string `json:"duplicates"`
	Total      int                 `json:"total"`
	MissingPct float64             `json:"missing_pct"`
}

// CanonicalMetrics summarizes canonical tags over scored pages.
type CanonicalMetrics struct {
	NoCanonical []string       `json:"no_canonical"`
	Diff        []CanonicalRef `json:"diff"`
	Total       int            `json:"total"`
	MissingPct  float64        `json:"missing_pct"`
}

// ImageMetrics summarizes image alt-attribute coverage.
type ImageMetrics struct {
	MissingAltDetails []PageCount `json:"missing_alt_details"`
	TotalImages       int         `json:"total_images"`
	MissingAltCount   int         `json:"missing_alt_count"`
	MissingPct        float64     `json:"missing_pct"`
}

// LinkMetrics counts internal vs external links.
type LinkMetrics struct {
	Internal int     `json:"internal"`
	External int     `json:"external"`
	Ratio    float64 `json:"ratio"`
}

// SecurityMetrics summarizes HTTPS coverage and the certificate probe.
type SecurityMetrics struct {
	NonHTTPS  []string `json:"non_https"`
	SecurePct float64  `json:"secure_pct"`
	SSLValid  bool     `json:"ssl_valid"`
	SSLError  string   `json:"ssl_error"`
}

// PerformanceMetrics summarizes latency and page weight.
type PerformanceMetrics struct {
	SlowPages    []string `json:"slow_pages"`
	AvgTime      float64  `json:"avg_time"`
	AvgSizeBytes float64  `json:"avg_size_bytes"`
	HugePages    []string `json:"huge_pages"`
}

// SocialMetrics summarizes Open Graph tag coverage.
type SocialMetrics struct {
	OGTitleCount int      `json:"og_title_count"`
	OGDescCount  int      `json:"og_desc_count"`
	OGImageCount int      `json:"og_image_count"`
	MissingURLs  []string `json:"missing_urls"`
	Total        int      `json:"total"`
}

// SchemaMetrics summarizes JSON-LD structured-data coverage.
type SchemaMetrics struct {
	PresentCount int      `json:"present_count"`
	MissingURLs  []string `json:"missing_urls"`
	Total        int      `json:"total"`
}

// StructureMetrics summarizes URL depth across the site.
type StructureMetrics struct {
	AvgDepth  float64     `json:"avg_depth"`
	MaxDepth  int         `json:"max_depth"`
	DepthDist map[int]int `json:"depth_dist"`
}

// ContentMetrics summarizes content quality signals.
type ContentMetrics struct {
	LowWordCount []PageCount `json:"low_word_count"`
	LowTextRatio []PageRatio `json:"low_text_ratio"`
}

// Metrics is the full analysis output, one sub-structure per check, plus the
// categorized issues and the per-page rollup derived from them.
type Metrics struct {
	HTTP        HTTPMetrics           `json:"http"`
	H1          HeadingMetrics        `json:"h1"`
	Title       TitleMetrics          `json:"title"`
	Meta        MetaMetrics           `json:"meta"`
	Canonical   CanonicalMetrics      `json:"canonical"`
	Images      ImageMetrics          `json:"images"`
	Links       LinkMetrics           `json:"links"`
	Security    SecurityMetrics       `json:"security"`
	Performance PerformanceMetrics    `json:"performance"`
	Social      SocialMetrics         `json:"social"`
	Schema      SchemaMetrics         `json:"schema"`
	Structure   StructureMetrics      `json:"structure"`
	Content     ContentMetrics        `json:"content"`
	Issues      IssueSet              `json:"issues"`
	PageDetails map[string]PageDetail `json:"page_details"`
}

// Result is what an analysis run produces: the score with its penalty trail
// and every metric behind it.
type Result struct {
	Score     float64  `json:"score"`
	Rating    string   `json:"rating"`
	Penalties []string `json:"penalties"`
	Metrics   *Metrics `json:"metrics"`
}

// emptyMetrics is the documented default for an empty dataset. Collections
// are allocated so reports serialize [] and {} rather than null.
func emptyMetrics() *Metrics {
	return &Metrics{
		HTTP: HTTPMetrics{
			Stats:        map[int]int{},
			Redirects:    []PageStatus{},
			BrokenLinks:  []PageStatus{},
			ServerErrors: []PageStatus{},
		},
		H1:          HeadingMetrics{NoH1: []string{}, MultipleH1: []string{}, DuplicateH1: map[string][]string{}},
		Title:       TitleMetrics{NoTitle: []string{}, Short: []string{}, Long: []string{}, Duplicates: map[string][]string{}},
		Meta:        MetaMetrics{NoMeta: []string{}, Short: []string{}, Long: []string{}, Duplicates: map[string][]string{}},
		Canonical:   CanonicalMetrics{NoCanonical: []string{}, Diff: []CanonicalRef{}},
		Images:      ImageMetrics{MissingAltDetails: []PageCount{}},
		Security:    SecurityMetrics{NonHTTPS: []string{}, SSLValid: true},
		Performance: PerformanceMetrics{SlowPages: []string{}, HugePages: []string{}},
		Social:      SocialMetrics{MissingURLs: []string{}},
		Schema:      SchemaMetrics{MissingURLs: []string{}},
		Structure:   StructureMetrics{DepthDist: map[int]int{}},
		Content:     ContentMetrics{LowWordCount: []PageCount{}, LowTextRatio: []PageRatio{}},
		Issues:      IssueSet{Errors: []Issue{}, Warnings: []Issue{}, Notices: []Issue{}},
		PageDetails: map[string]PageDetail{},
	}
}
