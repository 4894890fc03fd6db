package htmx

// Request headers sent by htmx.
const (
	HeaderRequest     = "HX-Request"
	HeaderBoosted     = "HX-Boosted"
	HeaderCurrentURL  = "HX-Current-URL"
	HeaderTarget      = "HX-Target"
	HeaderTriggerName = "HX-Trigger-Name"
)

// Response headers understood by htmx.
const (
	HeaderLocation   = "HX-Location"
	HeaderPushURL    = "HX-Push-Url"
	HeaderRedirect   = "HX-Redirect"
	HeaderRefresh    = "HX-Refresh"
	HeaderReplaceURL = "HX-Replace-Url"
	HeaderReswap     = "HX-Reswap"
	HeaderRetarget   = "HX-Retarget"
	HeaderTrigger    = "HX-Trigger"
)

// Swap is an hx-swap strategy.
type Swap string

const (
	SwapInnerHTML   Swap = "innerHTML"
	SwapOuterHTML   Swap = "outerHTML"
	SwapBeforeBegin Swap = "beforebegin"
	SwapAfterBegin  Swap = "afterbegin"
	SwapBeforeEnd   Swap = "beforeend"
	SwapAfterEnd    Swap = "afterend"
	SwapDelete      Swap = "delete"
	SwapNone        Swap = "none"
)
