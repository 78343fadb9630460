package handlers

// @title ArtisansHub Marketplace API
// @version 1.0
// @description Listing backend for artisan sellers: image upload with suggested pricing, listing creation and the product feed.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name products
// @tag.description Listings and image analysis

// @tag.name system
// @tag.description Service health
