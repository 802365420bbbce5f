package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mplm/rundash/pkg/contract"
)

func RegisterDashboardServiceRoutes(service contract.DashboardService, parser contract.HTTPRequestParser, app *fiber.App) {
	app.Get("/records", func(ctx *fiber.Ctx) error {
		input := &contract.ListRecords{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}

		output, err := service.ListRecords(input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/records/:id", func(ctx *fiber.Ctx) error {
		input := &contract.GetRecord{}
		if err := parser.ParseParams(ctx, input); err != nil {
			return err
		}

		output, err := service.GetRecord(input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/series", func(ctx *fiber.Ctx) error {
		input := &contract.GetSeries{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}

		output, err := service.GetSeries(input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/selection", func(ctx *fiber.Ctx) error {
		output, err := service.GetSelection()
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Put("/selection", func(ctx *fiber.Ctx) error {
		input := &contract.SetSelection{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := service.SetSelection(input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Delete("/selection", func(ctx *fiber.Ctx) error {
		output, err := service.ClearSelection()
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Post("/reload", func(ctx *fiber.Ctx) error {
		output, err := service.Reload(ctx.UserContext())
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})
}
