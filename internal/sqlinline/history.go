package sqlinline

const QInsertGeneration = `--sql 8f0b5f6a-6f0e-4f3f-9b1f-2a45cde90b11
insert into generations(
  id,
  mode,
  prompt,
  image_count,
  input_tokens,
  output_tokens,
  estimated_cost,
  filenames,
  created_at
) values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::int,
  $5::int,
  $6::int,
  $7::numeric,
  $8::text[],
  now()
);
`

const QListGenerations = `--sql 3a7c9d84-20be-4bb7-9a73-5f61d0c4a0e2
select
  id,
  mode,
  prompt,
  image_count,
  input_tokens,
  output_tokens,
  estimated_cost,
  filenames,
  created_at
from generations
order by created_at desc
limit $1::int;
`
