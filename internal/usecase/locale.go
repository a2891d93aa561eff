package usecase

import (
	"fmt"

	"golang.org/x/text/language"
)

// Variant names one of the front-ends built over the presenter
type Variant string

const (
	// VariantCards renders results as Vietnamese-language cards
	VariantCards Variant = "cards"
	// VariantTable renders results as an English-language table
	VariantTable Variant = "table"
)

// Locale holds every user-visible string and number convention of a variant
type Locale struct {
	Variant        Variant
	Language       language.Tag
	CurrencySuffix string

	Title             string
	SearchPlaceholder string
	SearchButton      string
	LoadingText       string
	ClearHistory      string

	NoResults       string
	ErrorPrefix     string
	UnknownCategory string
	NoRating        string
	SoftErrorPrefix string
	SoftErrorJoin   string

	// EmptyQueryAlert is shown when a blank product name is submitted.
	// Empty means blank submissions are ignored silently.
	EmptyQueryAlert string

	BestSuggestion       string
	RecommendationFormat string // name, store, price, rating

	ChartLabel string

	PriceLabel    string
	StoreLabel    string
	CategoryLabel string
	RatingLabel   string
	UpdatedLabel  string
	ProductLabel  string
	DetailLink    string
	CheapestBadge string
	SummaryFormat string // min, max, spread

	HistoryCleared     string
	HistoryClearFailed string
}

var locales = map[Variant]Locale{
	VariantCards: {
		Variant:        VariantCards,
		Language:       language.Vietnamese,
		CurrencySuffix: "₫",

		Title:             "So sánh giá sản phẩm",
		SearchPlaceholder: "Nhập tên sản phẩm...",
		SearchButton:      "Tìm kiếm",
		LoadingText:       "Đang tìm kiếm...",
		ClearHistory:      "Xóa lịch sử",

		NoResults:       "Không tìm thấy sản phẩm nào.",
		ErrorPrefix:     "Lỗi khi tìm kiếm sản phẩm: ",
		UnknownCategory: "Không xác định",
		NoRating:        "Chưa có",
		SoftErrorPrefix: "Có lỗi xảy ra: ",
		SoftErrorJoin:   ", ",

		BestSuggestion:       "Gợi ý tốt nhất:",
		RecommendationFormat: "%s tại %s với giá %s (Đánh giá: %s)",

		ChartLabel: "Giá sản phẩm (VNĐ)",

		PriceLabel:    "Giá:",
		StoreLabel:    "Cửa hàng:",
		CategoryLabel: "Danh mục:",
		RatingLabel:   "Đánh giá:",
		UpdatedLabel:  "Cập nhật:",
		ProductLabel:  "Sản phẩm",
		DetailLink:    "Xem chi tiết",
		CheapestBadge: "Rẻ nhất",
		SummaryFormat: "Thấp nhất %s, cao nhất %s, chênh lệch %s",

		HistoryCleared:     "Đã xóa lịch sử thành công",
		HistoryClearFailed: "Có lỗi xảy ra khi xóa lịch sử: ",
	},
	VariantTable: {
		Variant:        VariantTable,
		Language:       language.English,
		CurrencySuffix: "",

		Title:             "Product price comparison",
		SearchPlaceholder: "Enter a product name...",
		SearchButton:      "Search",
		LoadingText:       "Searching...",
		ClearHistory:      "Clear history",

		NoResults:       "No products found.",
		ErrorPrefix:     "Error while searching for products: ",
		UnknownCategory: "Unknown",
		NoRating:        "N/A",
		SoftErrorPrefix: "Some errors occurred: ",
		SoftErrorJoin:   ", ",

		EmptyQueryAlert: "Please enter a product name.",

		BestSuggestion:       "Best suggestion:",
		RecommendationFormat: "%s at %s for %s (Rating: %s)",

		ChartLabel: "Product price (VND)",

		PriceLabel:    "Price (VND)",
		StoreLabel:    "Store",
		CategoryLabel: "Category",
		RatingLabel:   "Rating",
		UpdatedLabel:  "Updated",
		ProductLabel:  "Product",
		DetailLink:    "View",
		CheapestBadge: "Cheapest",
		SummaryFormat: "Lowest %s, highest %s, spread %s",

		HistoryCleared:     "Search history cleared",
		HistoryClearFailed: "Could not clear search history: ",
	},
}

// LocaleFor returns the locale of a variant
func LocaleFor(v Variant) (Locale, error) {
	l, ok := locales[v]
	if !ok {
		return Locale{}, fmt.Errorf("unknown variant %q", v)
	}
	return l, nil
}

// Variants lists the supported variants
func Variants() []Variant {
	return []Variant{VariantCards, VariantTable}
}
