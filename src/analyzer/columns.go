package analyzer

// Column names of the transactions table, matched exactly.
const (
	ColAge                = "Age"
	ColPurchaseAmount     = "Purchase Amount"
	ColReviewRating       = "Review Rating"
	ColProductCategory    = "Product Category"
	ColItemPurchased      = "Item Purchased"
	ColPurchaseDate       = "Purchase Date"
	ColGender             = "Gender"
	ColSubscriptionStatus = "Subscription Status"
	ColPaymentMethod      = "Payment Method"
	ColPromoCode          = "Used Promo Code"
	ColProductSize        = "Product Size"
	ColShippingType       = "Shipping Type"
	ColDiscountApplied    = "Discount Applied"
	ColColor              = "Color"
	ColPreviousPurchases  = "Previous Purchases"
	ColLocation           = "Location"
)

// colPurchaseMonth is derived from ColPurchaseDate before aggregation.
const colPurchaseMonth = "Purchase Month"

// NumericColumns are coerced to float on load; unparsable values become
// missing rather than failing the load.
func NumericColumns() []string {
	return []string{ColAge, ColPurchaseAmount, ColReviewRating}
}

func requiredColumns() []string {
	return []string{
		ColAge,
		ColPurchaseAmount,
		ColReviewRating,
		ColProductCategory,
		ColItemPurchased,
		ColPurchaseDate,
		ColGender,
		ColSubscriptionStatus,
		ColPaymentMethod,
		ColPromoCode,
		ColProductSize,
		ColShippingType,
		ColDiscountApplied,
		ColColor,
		ColPreviousPurchases,
		ColLocation,
	}
}

// AgeBinLabels are the five fixed age buckets, in display order.
var AgeBinLabels = []string{"0-18", "19-30", "31-45", "46-60", "60+"}

// ageBin buckets an age the way the bins (0,18], (18,30], (30,45], (45,60],
// (60,100] do. Ages outside (0,100] fall into no bucket.
func ageBin(age float64) (string, bool) {
	switch {
	case age > 0 && age <= 18:
		return AgeBinLabels[0], true
	case age > 18 && age <= 30:
		return AgeBinLabels[1], true
	case age > 30 && age <= 45:
		return AgeBinLabels[2], true
	case age > 45 && age <= 60:
		return AgeBinLabels[3], true
	case age > 60 && age <= 100:
		return AgeBinLabels[4], true
	}
	return "", false
}
