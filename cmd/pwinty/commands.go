package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/five82/pwinty/internal/pwinty"
)

var commands = map[string]command{
	"countries": {
		usage: "",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			if _, err := parseArgs("countries", args, 0, nil); err != nil {
				return nil, err
			}
			return api.Countries(ctx)
		},
	},
	"catalogue": {
		usage: "[-quality Standard|Pro] <country-code>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var quality string
			pos, err := parseArgs("catalogue", args, 1, func(fs *flag.FlagSet) {
				fs.StringVar(&quality, "quality", string(pwinty.QualityStandard), "catalogue tier")
			})
			if err != nil {
				return nil, err
			}
			q := pwinty.QualityLevel(quality)
			if q != pwinty.QualityStandard && q != pwinty.QualityPro {
				return nil, fmt.Errorf("%w: quality must be Standard or Pro", errUsage)
			}
			return api.Catalogue(ctx, pos[0], q)
		},
	},
	"orders": {
		usage: "[-status NotYetSubmitted|Submitted|AwaitingPayment|Complete|Cancelled]",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var status string
			if _, err := parseArgs("orders", args, 0, func(fs *flag.FlagSet) {
				fs.StringVar(&status, "status", "", "only orders in this status")
			}); err != nil {
				return nil, err
			}
			if status == "" {
				return api.Orders(ctx)
			}
			s, err := pwinty.ParseOrderStatus(status)
			if err != nil {
				return nil, err
			}
			return api.OrdersWithStatus(ctx, s)
		},
	},
	"order": {
		usage: "<order-id>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("order", args, 1, nil)
			if err != nil {
				return nil, err
			}
			return api.Order(ctx, pos[0])
		},
	},
	"create": {
		usage: "-file <order.json|->",
		run: func(ctx context.Context, c *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var file string
			if _, err := parseArgs("create", args, 0, fileFlag(&file)); err != nil {
				return nil, err
			}
			var params pwinty.OrderParams
			if err := c.readJSON(file, &params); err != nil {
				return nil, err
			}
			if params.MerchantOrderID == "" {
				params.MerchantOrderID = uuid.NewString()
			}
			return api.CreateOrder(ctx, params)
		},
	},
	"update": {
		usage: "-file <order.json|-> <order-id>",
		run: func(ctx context.Context, c *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var file string
			pos, err := parseArgs("update", args, 1, fileFlag(&file))
			if err != nil {
				return nil, err
			}
			var params pwinty.OrderParams
			if err := c.readJSON(file, &params); err != nil {
				return nil, err
			}
			params.ID = pos[0]
			return api.UpdateOrder(ctx, params)
		},
	},
	"set-status": {
		usage: "<order-id> <Cancelled|AwaitingPayment|Submitted>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("set-status", args, 2, nil)
			if err != nil {
				return nil, err
			}
			status, err := pwinty.ParseOrderStatus(pos[1])
			if err != nil {
				return nil, err
			}
			return api.UpdateOrderStatus(ctx, pwinty.StatusParams{ID: pos[0], Status: status})
		},
	},
	"submission": {
		usage: "<order-id>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("submission", args, 1, nil)
			if err != nil {
				return nil, err
			}
			return api.OrderSubmissionStatus(ctx, pos[0])
		},
	},
	"photos": {
		usage: "<order-id>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("photos", args, 1, nil)
			if err != nil {
				return nil, err
			}
			return api.OrderPhotos(ctx, pos[0])
		},
	},
	"photo": {
		usage: "<order-id> <photo-id>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("photo", args, 2, nil)
			if err != nil {
				return nil, err
			}
			return api.OrderPhoto(ctx, pos[0], pos[1])
		},
	},
	"delete-photo": {
		usage: "<order-id> <photo-id>",
		run: func(ctx context.Context, _ *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			pos, err := parseArgs("delete-photo", args, 2, nil)
			if err != nil {
				return nil, err
			}
			return api.DeleteOrderPhoto(ctx, pos[0], pos[1])
		},
	},
	"add-photo": {
		usage: "-file <photo.json|-> <order-id>",
		run: func(ctx context.Context, c *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var file string
			pos, err := parseArgs("add-photo", args, 1, fileFlag(&file))
			if err != nil {
				return nil, err
			}
			var photo pwinty.PhotoParams
			if err := c.readJSON(file, &photo); err != nil {
				return nil, err
			}
			return api.AddPhotoToOrder(ctx, pos[0], photo)
		},
	},
	"add-photos": {
		usage: "-file <photos.json|-> <order-id>",
		run: func(ctx context.Context, c *cli, api pwinty.API, args []string) (json.RawMessage, error) {
			var file string
			pos, err := parseArgs("add-photos", args, 1, fileFlag(&file))
			if err != nil {
				return nil, err
			}
			var photos []pwinty.PhotoParams
			if err := c.readJSON(file, &photos); err != nil {
				return nil, err
			}
			return api.AddPhotosToOrder(ctx, pos[0], photos)
		},
	},
}

func fileFlag(dst *string) func(fs *flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.StringVar(dst, "file", "", "JSON request body, - for stdin")
	}
}
