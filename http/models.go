package http

import (
	"github.com/ChaosForCurio/Xieriee-Store/browse"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
	"github.com/ChaosForCurio/Xieriee-Store/upload"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type BasePage struct {
	Title      string
	Query      browse.Query
	SignedIn   bool
	CanPublish bool
}

type listingPage struct {
	BasePage
	View          browse.View
	SkeletonCards int
}

type detailPage struct {
	BasePage
	App             *storeapi.App
	NotFound        bool
	InstallFilename string
}

type uploadPage struct {
	BasePage
	Draft             upload.Draft
	Status            upload.Status
	AllowedExt        string
	PlatformLabel     string
	FileSize          int64
	CanSubmit         bool
	Submitting        bool
	Closing           bool
	CloseDelaySeconds int
}

type signinPage struct {
	BasePage
	Error string
	Next  string
}
