package videobackend

var OverlayRegion = overlayRegion
